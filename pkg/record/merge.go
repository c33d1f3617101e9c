package record

// pick resolves one attribute across two partial sets. The higher
// confidence wins; ties prefer the better-ranked provenance
// (structured_api over scraped over inferred). Nil loses to anything.
func pick[T any](a, b *Field[T]) *Field[T] {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Confidence > a.Confidence:
		return b
	case b.Confidence == a.Confidence && b.Source.rank() > a.Source.rank():
		return b
	default:
		return a
	}
}

// MergeProperty reconciles partial property field sets into one, attribute
// by attribute, independently. It performs no I/O and does not modify its
// inputs.
func MergeProperty(sets ...PropertyFields) PropertyFields {
	var out PropertyFields
	for _, s := range sets {
		out.Address = pick(out.Address, s.Address)
		out.Price = pick(out.Price, s.Price)
		out.Bedrooms = pick(out.Bedrooms, s.Bedrooms)
		out.Bathrooms = pick(out.Bathrooms, s.Bathrooms)
		out.Area = pick(out.Area, s.Area)
		out.Description = pick(out.Description, s.Description)
		out.Features = pick(out.Features, s.Features)
		out.Neighborhood = pick(out.Neighborhood, s.Neighborhood)
		out.Photos = pick(out.Photos, s.Photos)
		out.YearBuilt = pick(out.YearBuilt, s.YearBuilt)
		out.LotSize = pick(out.LotSize, s.LotSize)
		out.PropertyType = pick(out.PropertyType, s.PropertyType)
		out.AgentName = pick(out.AgentName, s.AgentName)
		out.AgentCompany = pick(out.AgentCompany, s.AgentCompany)
	}
	return out
}

// MergeAgent reconciles partial agent field sets into one.
func MergeAgent(sets ...AgentFields) AgentFields {
	var out AgentFields
	for _, s := range sets {
		out.Name = pick(out.Name, s.Name)
		out.Company = pick(out.Company, s.Company)
		out.Title = pick(out.Title, s.Title)
		out.Bio = pick(out.Bio, s.Bio)
		out.Specialties = pick(out.Specialties, s.Specialties)
		out.Phone = pick(out.Phone, s.Phone)
		out.Email = pick(out.Email, s.Email)
		out.Website = pick(out.Website, s.Website)
		out.ServiceAreas = pick(out.ServiceAreas, s.ServiceAreas)
		out.Photo = pick(out.Photo, s.Photo)
	}
	return out
}

package schema

// CaseStudyTarget returns the fixed case-study page schema, grouped the way
// the editor presents it. Each call returns a fresh copy.
func CaseStudyTarget() []FieldGroup {
	return []FieldGroup{
		{
			Name: "Basics",
			Fields: []FieldDescriptor{
				{ID: "title", Name: "Title", Type: TypeText, Required: true},
				{ID: "slug", Name: "Slug", Type: TypeText},
				{ID: "client", Name: "Client", Type: TypeText},
				{ID: "summary", Name: "Summary", Type: TypeText},
				{ID: "description", Name: "Description", Type: TypeRichText},
			},
		},
		{
			Name: "Media",
			Fields: []FieldDescriptor{
				{ID: "hero_image", Name: "Hero Image", Type: TypeImage, Required: true},
				{ID: "gallery", Name: "Gallery", Type: TypeFiles},
			},
		},
		{
			Name: "Details",
			Fields: []FieldDescriptor{
				{ID: "industry", Name: "Industry", Type: TypeSelect},
				{ID: "services", Name: "Services", Type: TypeList},
				{ID: "tags", Name: "Tags", Type: TypeList},
				{ID: "published_at", Name: "Published At", Type: TypeDate},
				{ID: "duration_weeks", Name: "Duration (weeks)", Type: TypeNumber},
				{ID: "featured", Name: "Featured", Type: TypeBoolean},
				{ID: "website", Name: "Website", Type: TypeURL},
				{ID: "related", Name: "Related Case Studies", Type: TypeRelation},
			},
		},
	}
}

// Flatten returns the fields of all groups in order.
func Flatten(groups []FieldGroup) []FieldDescriptor {
	var out []FieldDescriptor
	for _, g := range groups {
		out = append(out, g.Fields...)
	}

	return out
}

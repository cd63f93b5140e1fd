package core

const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "Non-Fiction"
	CategoryScience    = "Science"
	CategoryHistory    = "History"
	CategoryTechnology = "Technology"

	// CategoryAll is the browse wildcard, it is never stored on a book.
	CategoryAll = "all"
)

// Categories returns the fixed set a book category is chosen from.
func Categories() []string {
	return []string{CategoryFiction, CategoryNonFiction, CategoryScience, CategoryHistory, CategoryTechnology}
}

// Book is a catalog record as kept by the books resource.
// The validate tags are the rules an admin edit has to satisfy.
type Book struct {
	ID          BookIDString `json:"id,omitempty"`
	Title       string       `json:"title" validate:"notblank"`
	Author      string       `json:"author" validate:"notblank"`
	Category    string       `json:"category" validate:"oneof=Fiction Non-Fiction Science History Technology"`
	Available   bool         `json:"available"`
	IsNew       bool         `json:"isNew"`
	IsPopular   bool         `json:"isPopular"`
	Cover       string       `json:"cover" validate:"required,http_url"`
	Description string       `json:"description"`
}

// BookPatch is a partial update, nil fields are left untouched.
type BookPatch struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Category    *string `json:"category,omitempty"`
	Available   *bool   `json:"available,omitempty"`
	IsNew       *bool   `json:"isNew,omitempty"`
	IsPopular   *bool   `json:"isPopular,omitempty"`
	Cover       *string `json:"cover,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AvailabilityPatch only touches Book.available.
func AvailabilityPatch(available bool) BookPatch {
	return BookPatch{Available: &available}
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p == BookPatch{}
}

// Apply returns a copy of the book with the patch applied.
func (b Book) Apply(p BookPatch) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Available != nil {
		b.Available = *p.Available
	}
	if p.IsNew != nil {
		b.IsNew = *p.IsNew
	}
	if p.IsPopular != nil {
		b.IsPopular = *p.IsPopular
	}
	if p.Cover != nil {
		b.Cover = *p.Cover
	}
	if p.Description != nil {
		b.Description = *p.Description
	}

	return b
}

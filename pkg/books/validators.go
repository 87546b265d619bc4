package books

type ListBooksQuery struct {
	Skip   int     `query:"skip" json:"skip" validate:"min=0"`
	Limit  int     `query:"limit" json:"limit" default:"20" validate:"min=1,max=100"`
	Search *string `query:"search" json:"search" mod:"trim"`
	Genre  *string `query:"genre" json:"genre" mod:"trim"`
}

type CreateBookPayload struct {
	Title           string  `json:"title" mod:"trim" validate:"required,max=255"`
	Author          string  `json:"author" mod:"trim" validate:"required,max=255"`
	Description     *string `json:"description"`
	ISBN            *string `json:"isbn" mod:"trim" validate:"omitempty,max=20"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,min=0,max=9999"`
	Genre           *string `json:"genre" mod:"trim" validate:"omitempty,max=100"`
	Pages           *int    `json:"pages" validate:"omitempty,min=1"`
	CoverURL        *string `json:"cover_url" mod:"trim" validate:"omitempty,max=500"`
}

// RatePayload leaves range checking to the service, which reports it as a
// 400 rather than a validation error.
type RatePayload struct {
	Rating *int `json:"rating" validate:"required"`
}

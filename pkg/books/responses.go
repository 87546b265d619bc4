package books

import (
	"time"

	"github.com/shishobooks/catalog/pkg/models"
)

type BookResponse struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     *string   `json:"description"`
	ISBN            *string   `json:"isbn"`
	PublicationYear *int      `json:"publication_year"`
	Genre           *string   `json:"genre"`
	Pages           *int      `json:"pages"`
	CoverURL        *string   `json:"cover_url"`
	AverageRating   float64   `json:"average_rating"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookDetailResponse struct {
	BookResponse
	UserRating   *int `json:"user_rating"`
	IsBookmarked bool `json:"is_bookmarked"`
}

type RatingResponse struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	BookID    int       `json:"book_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBookResponse(book *models.Book) BookResponse {
	return BookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		Description:     book.Description,
		ISBN:            book.ISBN,
		PublicationYear: book.PublicationYear,
		Genre:           book.Genre,
		Pages:           book.Pages,
		CoverURL:        book.CoverURL,
		AverageRating:   book.AverageRating,
		CreatedAt:       book.CreatedAt,
	}
}

func NewBookResponses(books []*models.Book) []BookResponse {
	resp := make([]BookResponse, 0, len(books))
	for _, book := range books {
		resp = append(resp, NewBookResponse(book))
	}
	return resp
}

func NewRatingResponse(rating *models.Rating) RatingResponse {
	return RatingResponse{
		ID:        rating.ID,
		UserID:    rating.UserID,
		BookID:    rating.BookID,
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
	}
}

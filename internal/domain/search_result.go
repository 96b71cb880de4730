package domain

// SearchMethod помечает, каким путём получена выдача поиска.
type SearchMethod string

const (
	SearchMethodVector   SearchMethod = "vector_similarity"
	SearchMethodFallback SearchMethod = "text_fallback"
)

// SearchResult — одна позиция поисковой выдачи.
// Score заполняется только на векторном пути.
type SearchResult struct {
	ItemID      string
	Description string
	Price       int64
	ImageURL    string
	ImageKey    *string
	Score       *float32
}

func NewSearchResult(itemID, description string, price int64, imageURL string, imageKey *string, score *float32) SearchResult {
	return SearchResult{
		ItemID:      itemID,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		ImageKey:    imageKey,
		Score:       score,
	}
}

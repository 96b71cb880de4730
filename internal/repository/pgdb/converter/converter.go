//go:generate goverter gen github.com/shopstream-tech/search-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/shopstream-tech/search-backend/internal/domain"
)

// ItemConverter преобразует сущности Item между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertPointerString
type ItemConverter interface {
	ToModel(entity *domain.Item) *ItemModel
	ToEntity(model *ItemModel) *domain.Item
	ToArrEntity(models []ItemModel) []domain.Item
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertPointerString(s *string) *string {
	return s
}

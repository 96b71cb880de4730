//go:generate goverter gen github.com/shopstream-tech/search-backend/internal/repository/redis/converter

package converter

import (
	"time"

	"github.com/shopstream-tech/search-backend/internal/domain"
)

// ItemConverter преобразует сущности Item между domain и Redis-моделью.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertPointerString
type ItemConverter interface {
	ToRedisModel(entity *domain.Item) *ItemRedisModel
	ToEntity(model *ItemRedisModel) *domain.Item
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

package domain

import "time"

// Payload описывает денормализованный снимок метаданных товара,
// хранящийся рядом с вектором
type Payload map[string]any

// Embedding представляет эмбеддинг описания одного товара
type Embedding struct {
	ID      string // UUID точки в Qdrant, детерминированно выводится из item_id
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

func NewPayload(item *Item) Payload {
	p := Payload{
		"item_id":     item.ItemID,
		"description": item.Description,
		"price":       item.Price,
		"image_url":   item.ImageURL,
		"created_at":  time.Now().UTC().UnixNano(),
	}
	if item.ImageKey != nil {
		p["image_key"] = *item.ImageKey
	}

	return p
}

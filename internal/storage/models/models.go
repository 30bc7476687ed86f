package models

import (
	"time"
)

// Generation is a stored generation outcome.
type Generation struct {
	ID           int64     `json:"id"`
	VideoID      string    `json:"videoId"`
	KeyPoint     string    `json:"keyPoint,omitempty"`
	Model        string    `json:"model"`
	Quote        string    `json:"quote"`
	Tweet        string    `json:"tweet"`
	LinkedIn     string    `json:"linkedin"`
	Score        int       `json:"score"`
	Improvements []string  `json:"improvements"`
	Iterations   int       `json:"iterations"`
	Accepted     bool      `json:"accepted"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Chunk is one transcript paragraph with its embedding.
type Chunk struct {
	Position  int
	Speaker   int
	Start     float64
	End       float64
	Text      string
	Embedding []float32
}

type VideoRequest struct {
	VideoID  string `json:"videoId"`
	KeyPoint string `json:"keyPoint,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

type SearchResult struct {
	VideoID    string  `json:"videoId"`
	ChunkText  string  `json:"chunkText"`
	Speaker    int     `json:"speaker"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Similarity float64 `json:"similarity"`
}

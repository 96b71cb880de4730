package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/jitter"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

// Embedder — клиент embedding-сервиса (OpenAI-совместимый HTTP API).
// Создаётся один раз на процесс и внедряется во все места использования:
// успешный прогрев модели выполняется единожды, конкурентные первые вызовы
// ждут завершения той же инициализации. Неудачный прогрев не запоминается:
// отмена контекста или исчерпание попыток у одного вызова не должны
// отравлять все последующие, следующий вызов повторит инициализацию.
type Embedder struct {
	cfg        *cfg.EmbedderCfg
	httpClient *http.Client
	logger     logger.Logger

	warmupMu sync.Mutex
	warmedUp bool
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewEmbedder(cfg *cfg.EmbedderCfg, logger logger.Logger) *Embedder {
	return &Embedder{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// EmbedText возвращает плоский вектор фиксированной размерности для текста.
// Пустой текст и ошибка инициализации модели фатальны для вызывающего.
func (em *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	const op = "Embedder.EmbedText"

	if strings.TrimSpace(text) == "" {
		return nil, e.Wrap(op, e.ErrEmptyText)
	}

	if err := em.ensureWarm(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	vector, err := em.embedWithRetry(ctx, text)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return vector, nil
}

// ensureWarm прогревает модель при первом успешном обращении.
// Ошибка прогрева возвращается только текущему вызову и не фиксируется.
func (em *Embedder) ensureWarm(ctx context.Context) error {
	em.warmupMu.Lock()
	defer em.warmupMu.Unlock()

	if em.warmedUp {
		return nil
	}

	if err := em.warmup(ctx); err != nil {
		return err
	}

	em.warmedUp = true
	return nil
}

// warmup выполняет первый вызов модели: на стороне inference-сервера он
// инициирует загрузку весов, все последующие вызовы переиспользуют их.
func (em *Embedder) warmup(ctx context.Context) error {
	const op = "Embedder.warmup"

	started := time.Now()
	em.logger.Infof("warming up embedding model %s", em.cfg.Model)

	if _, err := em.embedWithRetry(ctx, "warmup"); err != nil {
		return e.Wrap(op, err)
	}

	em.logger.Infof("embedding model ready in %v", time.Since(started))
	return nil
}

// embedWithRetry выполняет запрос с retry-логикой и экспоненциальной задержкой
func (em *Embedder) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	const (
		op         = "Embedder.embedWithRetry"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	var lastErr error
	for attempt := 0; attempt < em.cfg.MaxRetries; attempt++ {
		vector, err := em.embed(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if attempt == em.cfg.MaxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		em.logger.Warnf("embedding request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", em.cfg.MaxRetries, lastErr))
}

// embed выполняет один запрос к embedding-сервису и схлопывает батчевую
// форму ответа: вызывающий всегда получает плоский вектор, не вложенный батч.
func (em *Embedder) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{
		Input: []string{text},
		Model: em.cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, em.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if em.cfg.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+em.cfg.ApiKey)
	}

	resp, err := em.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, respBody)
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if embResp.Error != nil {
		return nil, fmt.Errorf("embedding service error: %s", embResp.Error.Message)
	}

	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, e.ErrEmptyVector
	}

	return embResp.Data[0].Embedding, nil
}

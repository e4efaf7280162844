package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChangeEvent уходит подписчикам workspace после зафиксированной правки.
type ChangeEvent struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	FileID      uuid.UUID `json:"file_id"`
	Version     int       `json:"version"`
}

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func Channel(workspaceID uuid.UUID) string {
	return fmt.Sprintf("workspace:%s:events", workspaceID)
}

// Publish реализует service.ChangePublisher. Доставка best-effort:
// вызывающий логирует ошибку и никогда не откатывает правку из-за неё.
func (p *Publisher) Publish(ctx context.Context, workspaceID, fileID uuid.UUID, version int) error {
	payload, err := json.Marshal(ChangeEvent{
		WorkspaceID: workspaceID,
		FileID:      fileID,
		Version:     version,
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(workspaceID), payload).Err()
}

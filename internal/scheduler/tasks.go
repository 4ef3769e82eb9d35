package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskQuoteExpirySweep = "quotes.expiry_sweep"

type QuoteExpirySweepPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewQuoteExpirySweepTask(payload QuoteExpirySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuoteExpirySweep, data), nil
}

func ParseQuoteExpirySweepPayload(task *asynq.Task) (QuoteExpirySweepPayload, error) {
	var payload QuoteExpirySweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QuoteExpirySweepPayload{}, err
	}
	return payload, nil
}

package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskExpireOverdueQuotes = "quotes.expire_overdue"

// ExpireOverdueQuotesPayload records who asked for a sweep. The sweep itself
// always covers every owner.
type ExpireOverdueQuotesPayload struct {
	Trigger string `json:"trigger"`
}

const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

func NewExpireOverdueQuotesTask(payload ExpireOverdueQuotesPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpireOverdueQuotes, data), nil
}

func ParseExpireOverdueQuotesPayload(task *asynq.Task) (ExpireOverdueQuotesPayload, error) {
	var payload ExpireOverdueQuotesPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExpireOverdueQuotesPayload{}, err
	}
	return payload, nil
}

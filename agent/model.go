package agent

import (
	"github.com/randalmurphal/llmkit/model"
)

// TaskType represents the type of task an agent is performing.
// This determines which model tier is appropriate.
type TaskType string

const (
	// Heavier reasoning tasks
	Plan  TaskType = "plan"
	Judge TaskType = "judge"

	// Standard workflow tasks - default tier
	Generate TaskType = "generate"
	Review   TaskType = "review"

	// Fast tasks - can use smaller models
	Summarize TaskType = "summarize"
	Transform TaskType = "transform"
)

// DefaultModelMap maps task types to default models.
var DefaultModelMap = map[TaskType]model.ModelName{
	Plan:      model.ModelOpus,
	Judge:     model.ModelOpus,
	Generate:  model.ModelSonnet,
	Review:    model.ModelSonnet,
	Summarize: model.ModelHaiku,
	Transform: model.ModelHaiku,
}

// TierForTask returns the appropriate tier for a task type.
func TierForTask(t TaskType) model.Tier {
	switch t {
	case Plan, Judge:
		return model.TierThinking
	case Summarize, Transform:
		return model.TierFast
	default:
		return model.TierDefault
	}
}

// NewSelector creates a model selector configured for workflow tasks.
func NewSelector(opts ...model.SelectorOption) *model.Selector {
	allOpts := append([]model.SelectorOption{
		model.WithTierFunc(func(task any) model.Tier {
			if t, ok := task.(TaskType); ok {
				return TierForTask(t)
			}
			return model.TierDefault
		}),
	}, opts...)

	return model.NewSelector(allOpts...)
}

// SelectModel selects the appropriate model for a task type.
// Uses the default model map unless the type is unknown.
func SelectModel(t TaskType) model.ModelName {
	if m, ok := DefaultModelMap[t]; ok {
		return m
	}
	switch TierForTask(t) {
	case model.TierThinking:
		return model.ModelOpus
	case model.TierFast:
		return model.ModelHaiku
	default:
		return model.ModelSonnet
	}
}

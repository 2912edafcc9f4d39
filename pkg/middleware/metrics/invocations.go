package metrics

import (
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/extension"
)

// ObserveInvocation records one finished invocation. code is "ok" on success.
func ObserveInvocation(category extension.Category, target, code string, waited time.Duration) {
	invocations.WithLabelValues(categoryLabel(category), targetLabel(target), code).Inc()
	if waited > 0 {
		invocationTime.WithLabelValues(targetLabel(target)).Observe(waited.Seconds())
	}
}

// ObserveReply records the size of a reply that passed the guard.
func ObserveReply(n int) { replyBytes.Observe(float64(n)) }

// categoryLabel folds caller-controlled categories into a bounded label set.
func categoryLabel(c extension.Category) string {
	switch c {
	case extension.CategoryInstaller, extension.CategorySetting, extension.CategoryHook:
		return string(c)
	case "":
		return "none"
	default:
		return "other"
	}
}

func targetLabel(t string) string {
	if t == "" {
		return "none"
	}
	return t
}

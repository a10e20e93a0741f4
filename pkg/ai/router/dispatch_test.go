package router

import (
	"testing"

	"ai-shopping-agent-be/pkg/ai/intent"

	"github.com/stretchr/testify/assert"
)

func TestDispatchTableCoversEveryLabel(t *testing.T) {
	r := NewRouter(Deps{})
	for _, label := range intent.Labels {
		assert.NotNil(t, r.handlers[label], "no handler for %s", label)
	}
	assert.Len(t, r.handlers, len(intent.Labels))
}

func TestMergeIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, mergeIDs([]string{"a", "b"}, "b", "", "c", "a"))
	assert.Empty(t, mergeIDs(nil))
}

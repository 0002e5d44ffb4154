package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCheckinCache drops everything derived from one patient's check-ins
func InvalidateCheckinCache(ctx context.Context, cm *CacheManager, username string) {
	SafeDelete(ctx, cm.Heatmap, fmt.Sprintf("user:%s", username))
	SafeInvalidatePattern(ctx, cm.Outreach, "due:*")
	SafeInvalidatePattern(ctx, cm.Fast, fmt.Sprintf("pending:%s:*", username))
}

// InvalidateQuestionCache drops the cached question schema
func InvalidateQuestionCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Question, "schema:*")
}

// InvalidateUserCache drops cached user rows and the outreach list, which
// depends on user cadence fields
func InvalidateUserCache(ctx context.Context, cm *CacheManager, username string) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("username:%s", username))
	SafeInvalidatePattern(ctx, cm.Outreach, "due:*")
}

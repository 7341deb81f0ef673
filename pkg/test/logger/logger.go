package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

// NewLoggerWithHook creates a new logger with debug loglevel and attaches a hook to it.
func NewLoggerWithHook() (*logrus.Logger, *logrustest.Hook) {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	hook := logrustest.NewLocal(logger)
	return logger, hook
}

// AssertHookContainsMessage asserts that an entry with the given message was logged.
func AssertHookContainsMessage(t assert.TestingT, hook *logrustest.Hook, message string) bool {
	return findEntry(t, hook, message) != nil
}

// AssertHookContainsField asserts that an entry with the given message was logged
// carrying the field key with the given value.
func AssertHookContainsField(t assert.TestingT, hook *logrustest.Hook, message, key string, value interface{}) bool {
	entry := findEntry(t, hook, message)
	if entry == nil {
		return false
	}
	return assert.Equal(t, value, entry.Data[key], "field %s of %q", key, message)
}

func findEntry(t assert.TestingT, hook *logrustest.Hook, message string) *logrus.Entry {
	if hook == nil {
		assert.Fail(t, "expect message but hook is nil")
		return nil
	}
	for _, entry := range hook.AllEntries() {
		if entry.Message == message {
			return entry
		}
	}
	assert.Fail(t, fmt.Sprintf("%#v does not contain %#v", hook.AllEntries(), message))
	return nil
}

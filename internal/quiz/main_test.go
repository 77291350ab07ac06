package quiz_test

import (
	"os"
	"testing"

	"github.com/vytor/plantquiz/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetDefault(logger.Discard())
	os.Exit(m.Run())
}

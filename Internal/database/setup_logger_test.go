package datafeed

import (
	"context"
	"testing"

	"github.com/fazecat/orbwatch/Internal/types"
)

func TestLoggingWithoutDatabaseErrors(t *testing.T) {
	saved := DB
	DB = nil
	defer func() { DB = saved }()

	ctx := context.Background()

	if err := LogSetup(ctx, types.Setup{Symbol: "AAPL"}); err == nil {
		t.Errorf("LogSetup must error when the database was never initialized")
	}
	if err := LogScan(ctx, 3, 1); err == nil {
		t.Errorf("LogScan must error when the database was never initialized")
	}
	if _, err := GetSetupHistory(ctx, "AAPL", 10); err == nil {
		t.Errorf("GetSetupHistory must error when the database was never initialized")
	}
	if _, err := GetRecentScans(ctx, 10); err == nil {
		t.Errorf("GetRecentScans must error when the database was never initialized")
	}
}

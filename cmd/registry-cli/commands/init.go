package commands

import (
	"context"
	"log/slog"
	"olasagents-backend/lib/restyutil"
	"olasagents-backend/lib/scrapers/ipfs"
	"olasagents-backend/lib/serviceutil"
	"olasagents-backend/lib/telemetry"
	"olasagents-backend/services/metadata"
	"olasagents-backend/services/metadata/db"
	"olasagents-backend/services/registry"
	"time"
)

func initTelemetry(ctx context.Context) func() {
	t, err := telemetry.SetupFromEnv(ctx, "registry-cli")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	if !t.Enabled() {
		return func() {}
	}
	telemetry.InstrumentPerfStats(ctx, 5*time.Second)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := t.Shutdown(ctx)
		if err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	}
}

func initRegistry(ctx context.Context, cfg registry.Config, verbose bool) (*registry.Service, func(), error) {
	database, err := cfg.MetadataDB.OpenDB(db.Schema)
	if err != nil {
		return nil, nil, err
	}

	ipfsOpts := cfg.IpfsOptions()
	if verbose {
		output, err := restyutil.NewFilesystemOutput("<dev_state>/resty/ipfs")
		if err != nil {
			slog.WarnContext(ctx, "request dumps disabled", "err", err)
		} else {
			ipfsOpts.Output = output
		}
	}

	resolver := metadata.NewService(
		metadata.NewStore(database),
		ipfs.NewClient(ipfsOpts),
	)
	service, err := registry.NewService(registry.ServiceOptions{
		Config:   cfg,
		Metadata: resolver,
		Render:   renderOptions(),
	})
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return service, func() { database.Close() }, nil
}

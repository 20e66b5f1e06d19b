package server

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Server is the whole networked game: registry, reaper and gateways.
type Server interface {
	Run(ctx context.Context) error
}

func NewServer(cfg Config) Server {
	return &server{
		cfg: cfg,
		reg: NewRegistry(cfg),
	}
}

type server struct {
	cfg Config
	reg *Registry
}

func (s *server) Run(ctx context.Context) error {
	grp, gctx := errgroup.WithContext(ctx)

	if err := runTCPGateway(gctx, s.reg, s.cfg.TCPAddr); err != nil {
		return err
	}
	if err := runWebGateway(gctx, s.reg, s.cfg.WebAddr); err != nil {
		return err
	}

	grp.Go(func() error {
		return s.reg.Run(gctx)
	})

	return grp.Wait()
}

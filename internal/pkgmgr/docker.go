package pkgmgr

import (
	"context"

	"github.com/docker/docker/client"
)

// EnginePinger verifies the container runtime is actually answering,
// not merely that a docker binary exists on PATH.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

type dockerPinger struct{}

func newDockerPinger() EnginePinger {
	return dockerPinger{}
}

func (dockerPinger) Ping(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer cli.Close()
	_, err = cli.Ping(ctx)
	return err
}

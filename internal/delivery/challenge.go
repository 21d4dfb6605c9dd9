package delivery

import (
	"context"

	"certifire/internal/destinations/types"

	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/challenge/http01"
)

var _ challenge.Provider = (*ChallengeProvider)(nil)

// ChallengeProvider solves HTTP-01 challenges by placing the key
// authorization on a destination's web root.
type ChallengeProvider struct {
	ctx         context.Context
	service     *Service
	destination *types.Destination
	overrideDir string
}

func NewChallengeProvider(ctx context.Context, service *Service, destination *types.Destination, overrideDir string) *ChallengeProvider {
	return &ChallengeProvider{
		ctx:         ctx,
		service:     service,
		destination: destination,
		overrideDir: overrideDir,
	}
}

func (p *ChallengeProvider) Present(_, token, keyAuth string) error {
	return p.service.DeliverChallengeToken(p.ctx, p.destination, http01.ChallengePath(token), keyAuth, p.overrideDir)
}

func (p *ChallengeProvider) CleanUp(_, token, _ string) error {
	return p.service.WithdrawChallengeToken(p.ctx, p.destination, http01.ChallengePath(token), p.overrideDir)
}

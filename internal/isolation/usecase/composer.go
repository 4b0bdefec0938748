package usecase

import (
	"github.com/allisson/isolator/internal/isolation/domain"
)

// credentialComposer derives SOCKS credentials from the two token axes.
type credentialComposer struct {
	store *keyStore
}

func newCredentialComposer(store *keyStore) *credentialComposer {
	return &credentialComposer{store: store}
}

// compose returns the credentials for the pair, creating missing tokens (first use wins).
func (c *credentialComposer) compose(
	firstParty string,
	containerID domain.ContainerID,
) (domain.Credentials, error) {
	domainToken, _, err := c.store.domainToken(firstParty, true)
	if err != nil {
		return domain.Credentials{}, err
	}
	containerToken, _, err := c.store.containerToken(containerID, true)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{
		Username: username(firstParty, containerID),
		Password: domainToken.String() + containerToken.String(),
	}, nil
}

// lookup is the read-only variant of compose. It never creates tokens.
func (c *credentialComposer) lookup(
	firstParty string,
	containerID domain.ContainerID,
) (domain.Credentials, bool) {
	domainToken, ok, _ := c.store.domainToken(firstParty, false)
	if !ok {
		return domain.Credentials{}, false
	}
	containerToken, ok, _ := c.store.containerToken(containerID, false)
	if !ok {
		return domain.Credentials{}, false
	}
	return domain.Credentials{
		Username: username(firstParty, containerID),
		Password: domainToken.String() + containerToken.String(),
	}, true
}

// username is "<domain>:<container>". It is for inspection only and carries no secret.
func username(firstParty string, containerID domain.ContainerID) string {
	return domain.NormalizeDomain(firstParty) + ":" + containerID.String()
}

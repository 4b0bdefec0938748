package usecase

import (
	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/service"
)

// keyStore holds the two independent token maps. It is not safe for concurrent use; the
// Engine serializes every call.
type keyStore struct {
	nonces     service.NonceGenerator
	domains    map[string]domain.Token
	containers map[domain.ContainerID]domain.Token
}

func newKeyStore(nonces service.NonceGenerator) *keyStore {
	return &keyStore{
		nonces:     nonces,
		domains:    make(map[string]domain.Token),
		containers: make(map[domain.ContainerID]domain.Token),
	}
}

// domainToken returns the token of firstParty, creating it when create is set.
// ok is false only when the token is missing and create is not set.
func (s *keyStore) domainToken(firstParty string, create bool) (token domain.Token, ok bool, err error) {
	key := domain.NormalizeDomain(firstParty)
	if token, ok := s.domains[key]; ok {
		return token, true, nil
	}
	if !create {
		return "", false, nil
	}
	token, err = s.nonces.Generate()
	if err != nil {
		return "", false, err
	}
	s.domains[key] = token
	return token, true, nil
}

// containerToken is the container-axis counterpart of domainToken.
func (s *keyStore) containerToken(
	containerID domain.ContainerID,
	create bool,
) (token domain.Token, ok bool, err error) {
	if token, ok := s.containers[containerID]; ok {
		return token, true, nil
	}
	if !create {
		return "", false, nil
	}
	token, err = s.nonces.Generate()
	if err != nil {
		return "", false, err
	}
	s.containers[containerID] = token
	return token, true, nil
}

// rotateDomain overwrites the token of firstParty whether or not one existed.
// On error the previous token is kept.
func (s *keyStore) rotateDomain(firstParty string) error {
	token, err := s.nonces.Generate()
	if err != nil {
		return err
	}
	s.domains[domain.NormalizeDomain(firstParty)] = token
	return nil
}

// rotateContainer overwrites the token of containerID whether or not one existed.
func (s *keyStore) rotateContainer(containerID domain.ContainerID) error {
	token, err := s.nonces.Generate()
	if err != nil {
		return err
	}
	s.containers[containerID] = token
	return nil
}

// clearAll discards both maps. Later lookups recreate tokens lazily.
func (s *keyStore) clearAll() {
	s.domains = make(map[string]domain.Token)
	s.containers = make(map[domain.ContainerID]domain.Token)
}

func (s *keyStore) size() (domains, containers int) {
	return len(s.domains), len(s.containers)
}

package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/seyifunmi/clinicshop/internal/checkout/domain"
	"github.com/seyifunmi/clinicshop/internal/session"
)

const customerInfoField = "customer_info"

// CustomerStore keeps the checkout's customer-info snapshot in the session
// hash until settlement consumes it.
type CustomerStore struct {
	sessions session.Store
}

func New(sessions session.Store) *CustomerStore {
	return &CustomerStore{sessions: sessions}
}

func (s *CustomerStore) Get(ctx context.Context, sessionID string) (domain.CustomerInfo, bool, error) {
	raw, ok, err := s.sessions.Get(ctx, sessionID, customerInfoField)
	if err != nil || !ok {
		return domain.CustomerInfo{}, false, err
	}

	var info domain.CustomerInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return domain.CustomerInfo{}, false, nil
	}
	return info, true, nil
}

func (s *CustomerStore) Save(ctx context.Context, sessionID string, info domain.CustomerInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode customer info: %w", err)
	}
	return s.sessions.Set(ctx, sessionID, customerInfoField, string(raw))
}

func (s *CustomerStore) Delete(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID, customerInfoField)
}

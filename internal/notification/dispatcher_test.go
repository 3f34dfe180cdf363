package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/senyabanana/tender-board/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPartyRepository is a mock implementation of repository.PartyRepository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) GetPartyByID(ctx context.Context, partyId string) (*models.Party, error) {
	args := m.Called(ctx, partyId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Party), args.Error(1)
}

func (m *MockPartyRepository) GetPartiesByIDs(ctx context.Context, partyIds []string) (map[string]models.Party, error) {
	args := m.Called(ctx, partyIds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.Party), args.Error(1)
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func testTender() *models.Tender {
	return &models.Tender{
		ID:          "t1",
		Title:       "Cotton lot 42",
		Description: "500m of dyed cotton",
		ClosesOn:    time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		Active:      true,
	}
}

func TestNotifyOpened_PartialFailuresTolerated(t *testing.T) {
	parties := new(MockPartyRepository)
	parties.On("GetPartyByID", mock.Anything, "p1").Return(&models.Party{ID: "p1", Email: "v1@example.com"}, nil)
	parties.On("GetPartyByID", mock.Anything, "p2").Return(nil, pgx.ErrNoRows)
	parties.On("GetPartyByID", mock.Anything, "p3").Return(&models.Party{ID: "p3", Email: "v3@example.com"}, nil)

	mailer := new(MockMailer)
	mailer.On("Send", "v1@example.com", mock.Anything, mock.Anything).Return(nil)
	mailer.On("Send", "v3@example.com", mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))

	dispatcher := NewDispatcher(parties, mailer, zap.NewNop(), "https://shiva-e-comm.web.app")
	err := dispatcher.NotifyOpened(context.Background(), testTender(), []string{"p1", "p2", "p3"})

	require.NoError(t, err)
	mailer.AssertNumberOfCalls(t, "Send", 2)
}

func TestNotifyOpened_InfraErrorPropagates(t *testing.T) {
	parties := new(MockPartyRepository)
	parties.On("GetPartyByID", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	dispatcher := NewDispatcher(parties, new(MockMailer), zap.NewNop(), "https://shiva-e-comm.web.app")
	err := dispatcher.NotifyOpened(context.Background(), testTender(), []string{"p1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve party")
}

func TestNotifyOpened_SkipsPartyWithoutEmail(t *testing.T) {
	parties := new(MockPartyRepository)
	parties.On("GetPartyByID", mock.Anything, "p1").Return(&models.Party{ID: "p1", Email: "v1@example.com"}, nil)
	parties.On("GetPartyByID", mock.Anything, "p2").Return(&models.Party{ID: "p2", Phone: "919876543210"}, nil)

	mailer := new(MockMailer)
	mailer.On("Send", "v1@example.com", mock.Anything, mock.Anything).Return(nil)

	dispatcher := NewDispatcher(parties, mailer, zap.NewNop(), "https://shiva-e-comm.web.app")
	err := dispatcher.NotifyOpened(context.Background(), testTender(), []string{"p1", "p2"})

	require.NoError(t, err)
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestNotifyOpened_BodyCarriesSharingLink(t *testing.T) {
	parties := new(MockPartyRepository)
	parties.On("GetPartyByID", mock.Anything, "p1").Return(&models.Party{ID: "p1", Email: "v1@example.com"}, nil)

	mailer := new(MockMailer)
	mailer.On("Send", "v1@example.com", "A New Tender Has Opened", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "https://shiva-e-comm.web.app/SharingPage/p1/t1") &&
			strings.Contains(body, "Cotton lot 42") &&
			strings.Contains(body, "10 Mar 2025")
	})).Return(nil)

	dispatcher := NewDispatcher(parties, mailer, zap.NewNop(), "https://shiva-e-comm.web.app")
	err := dispatcher.NotifyOpened(context.Background(), testTender(), []string{"p1"})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestNotifyClosed_BodyCarriesResultLink(t *testing.T) {
	parties := new(MockPartyRepository)
	parties.On("GetPartyByID", mock.Anything, "p1").Return(&models.Party{ID: "p1", Email: "v1@example.com"}, nil)

	mailer := new(MockMailer)
	mailer.On("Send", "v1@example.com", "Result of Tendor", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "https://shiva-e-comm.web.app/tendor-result/t1")
	})).Return(nil)

	dispatcher := NewDispatcher(parties, mailer, zap.NewNop(), "https://shiva-e-comm.web.app")
	err := dispatcher.NotifyClosed(context.Background(), testTender(), []string{"p1"})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSharingLink(t *testing.T) {
	link := SharingLink("https://shiva-e-comm.web.app", "p1", "t1")
	assert.Equal(t, "https://shiva-e-comm.web.app/SharingPage/p1/t1", link)
}

func TestResultLink(t *testing.T) {
	link := ResultLink("https://shiva-e-comm.web.app", "t1")
	assert.Equal(t, "https://shiva-e-comm.web.app/tendor-result/t1", link)
}

func TestWhatsAppURL_EscapesMessage(t *testing.T) {
	link := WhatsAppURL("919876543210", "New tender: Cotton lot 42 & more")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="))
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "&more")
	assert.Contains(t, link, "%26")
}

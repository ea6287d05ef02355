package card

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "cardhub/internal/errors"
	"cardhub/internal/issuing"
	"cardhub/internal/mocks"
	"cardhub/internal/models"
	"cardhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo     *mocks.MockCardRepository
	intents  *mocks.MockCardSyncIntentRepository
	platform *mocks.MockPlatform
	cache    *mocks.MockCache
}

func newFixture() *fixture {
	return &fixture{
		repo:     new(mocks.MockCardRepository),
		intents:  new(mocks.MockCardSyncIntentRepository),
		platform: new(mocks.MockPlatform),
		cache:    new(mocks.MockCache),
	}
}

// service without a cache
func (f *fixture) service() Service {
	return NewService(f.repo, f.intents, f.platform, nil)
}

func (f *fixture) cachedService() Service {
	return NewService(f.repo, f.intents, f.platform, f.cache)
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.intents.AssertExpectations(t)
	f.platform.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func int64Ptr(v int64) *int64 { return &v }

func testCardholder() *issuing.Cardholder {
	return &issuing.Cardholder{
		ID:          "ich_1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneNumber: "+15555550100",
		Billing: issuing.Address{
			City:       "Austin",
			Country:    "US",
			Line1:      "1 Main St",
			Line2:      "Suite 200",
			PostalCode: "78701",
			State:      "TX",
		},
	}
}

func issuedCard(cardType string) *issuing.Card {
	return &issuing.Card{
		ID:           "ic_1",
		CardholderID: "ich_1",
		Type:         cardType,
		Currency:     "usd",
		Brand:        "Visa",
		Last4:        "4242",
		Status:       models.CardStatusInactive,
		ExpMonth:     8,
		ExpYear:      2029,
	}
}

func TestCardService_GetAll(t *testing.T) {
	t.Run("returns exactly the cardholder's cards", func(t *testing.T) {
		f := newFixture()
		owned := []*models.Card{
			{ID: "c1", CardID: "ic_1", CardholderID: "ich_1"},
			{ID: "c2", CardID: "ic_2", CardholderID: "ich_1"},
			{ID: "c3", CardID: "ic_3", CardholderID: "ich_1"},
		}
		f.repo.On("FindByCardholder", mock.Anything, "ich_1").Return(owned, nil)

		cards, err := f.service().GetAll(context.Background(), "ich_1")
		require.NoError(t, err)
		assert.Len(t, cards, 3)
		for _, c := range cards {
			assert.Equal(t, "ich_1", c.CardholderID)
		}
		f.assertExpectations(t)
	})

	t.Run("empty cardholder id is rejected", func(t *testing.T) {
		f := newFixture()
		_, err := f.service().GetAll(context.Background(), "")
		assert.ErrorIs(t, err, apperrors.ErrCardholderRequired)
		f.repo.AssertNotCalled(t, "FindByCardholder", mock.Anything, mock.Anything)
	})

	t.Run("cache miss fills the cache", func(t *testing.T) {
		f := newFixture()
		owned := []*models.Card{{ID: "c1", CardholderID: "ich_1"}}
		f.cache.On("GetCards", mock.Anything, "ich_1").Return(nil, false, nil)
		f.repo.On("FindByCardholder", mock.Anything, "ich_1").Return(owned, nil)
		f.cache.On("CacheCards", mock.Anything, "ich_1", owned).Return(nil)

		cards, err := f.cachedService().GetAll(context.Background(), "ich_1")
		require.NoError(t, err)
		assert.Equal(t, owned, cards)
		f.assertExpectations(t)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newFixture()
		cached := []*models.Card{{ID: "c1", CardholderID: "ich_1"}}
		f.cache.On("GetCards", mock.Anything, "ich_1").Return(cached, true, nil)

		cards, err := f.cachedService().GetAll(context.Background(), "ich_1")
		require.NoError(t, err)
		assert.Equal(t, cached, cards)
		f.repo.AssertNotCalled(t, "FindByCardholder", mock.Anything, mock.Anything)
	})

	t.Run("cache errors fall through to the store", func(t *testing.T) {
		f := newFixture()
		owned := []*models.Card{{ID: "c1", CardholderID: "ich_1"}}
		f.cache.On("GetCards", mock.Anything, "ich_1").Return(nil, false, errors.New("redis down"))
		f.repo.On("FindByCardholder", mock.Anything, "ich_1").Return(owned, nil)
		f.cache.On("CacheCards", mock.Anything, "ich_1", owned).Return(errors.New("redis down"))

		cards, err := f.cachedService().GetAll(context.Background(), "ich_1")
		require.NoError(t, err)
		assert.Equal(t, owned, cards)
	})
}

func TestCardService_GetByID(t *testing.T) {
	t.Run("owner scoped", func(t *testing.T) {
		f := newFixture()
		card := &models.Card{ID: "c1", CardholderID: "ich_1"}
		f.repo.On("FindByIDAndCardholder", mock.Anything, "c1", "ich_1").Return(card, nil)
		f.repo.On("FindByIDAndCardholder", mock.Anything, "c1", "ich_2").Return(nil, repositories.ErrCardNotFound)

		got, err := f.service().GetByID(context.Background(), "ich_1", "c1")
		require.NoError(t, err)
		assert.Equal(t, card, got)

		_, err = f.service().GetByID(context.Background(), "ich_2", "c1")
		assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
		assert.Equal(t, "Card not found", err.Error())
	})

	t.Run("store errors propagate", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("connection refused")
		f.repo.On("FindByIDAndCardholder", mock.Anything, "c1", "ich_1").Return(nil, boom)

		_, err := f.service().GetByID(context.Background(), "ich_1", "c1")
		assert.ErrorIs(t, err, boom)
		assert.False(t, apperrors.IsNotFound(err))
	})
}

func TestCardService_Lookup(t *testing.T) {
	f := newFixture()
	card := &models.Card{ID: "c1", CardholderID: "ich_someone_else"}
	f.repo.On("FindByID", mock.Anything, "c1").Return(card, nil)
	f.repo.On("FindByID", mock.Anything, "missing").Return(nil, repositories.ErrCardNotFound)

	got, err := f.service().Lookup(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "ich_someone_else", got.CardholderID)

	_, err = f.service().Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
	f.assertExpectations(t)
}

func TestCardService_CreateCard(t *testing.T) {
	t.Run("unknown cardholder fails before issuing", func(t *testing.T) {
		f := newFixture()
		f.platform.On("SearchCardholder", mock.Anything, "ich_missing").Return(nil, issuing.ErrCardholderNotFound)

		_, err := f.service().CreateCard(context.Background(), "ich_missing", models.CreateCardInput{Type: "virtual", Currency: "usd"})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Equal(t, "User not found", err.Error())
		f.platform.AssertNotCalled(t, "CreateCard", mock.Anything, mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("virtual card", func(t *testing.T) {
		f := newFixture()
		f.platform.On("SearchCardholder", mock.Anything, "ich_1").Return(testCardholder(), nil)
		f.platform.On("CreateCard", mock.Anything, issuing.CardRequest{
			CardholderID: "ich_1",
			Type:         "virtual",
			Currency:     "usd",
		}, mock.AnythingOfType("string")).Return(issuedCard("virtual"), nil)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Card")).Return(nil)

		card, err := f.service().CreateCard(context.Background(), "ich_1", models.CreateCardInput{Type: "virtual", Currency: "usd"})
		require.NoError(t, err)
		assert.Equal(t, &models.Card{
			CardID:       "ic_1",
			CardholderID: "ich_1",
			Type:         "virtual",
			Currency:     "usd",
			ExpMonth:     8,
			ExpYear:      2029,
			Last4:        "4242",
			Brand:        "Visa",
			Status:       "inactive",
		}, card)
		f.assertExpectations(t)
	})

	t.Run("physical card ships to the full billing address", func(t *testing.T) {
		f := newFixture()
		var sent issuing.CardRequest
		f.platform.On("SearchCardholder", mock.Anything, "ich_1").Return(testCardholder(), nil)
		f.platform.On("CreateCard", mock.Anything, mock.AnythingOfType("issuing.CardRequest"), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.Get(1).(issuing.CardRequest) }).
			Return(issuedCard("physical"), nil)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Card")).Return(nil)

		_, err := f.service().CreateCard(context.Background(), "ich_1", models.CreateCardInput{Type: "physical", Currency: "usd"})
		require.NoError(t, err)

		require.NotNil(t, sent.Shipping)
		assert.Equal(t, issuing.Address{
			City:       "Austin",
			Country:    "US",
			Line1:      "1 Main St",
			Line2:      "Suite 200",
			PostalCode: "78701",
			State:      "TX",
		}, sent.Shipping.Address)
		assert.Equal(t, "Ada Lovelace", sent.Shipping.Name)
		assert.Equal(t, "+15555550100", sent.Shipping.PhoneNumber)
		assert.Equal(t, "standard", sent.Shipping.Service)
	})

	t.Run("cardholder profile is cached", func(t *testing.T) {
		f := newFixture()
		holder := testCardholder()
		f.cache.On("GetCardholder", mock.Anything, "ich_1").Return(nil, false, nil).Once()
		f.platform.On("SearchCardholder", mock.Anything, "ich_1").Return(holder, nil).Once()
		f.cache.On("CacheCardholder", mock.Anything, holder).Return(nil)
		f.platform.On("CreateCard", mock.Anything, mock.Anything, mock.Anything).Return(issuedCard("virtual"), nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("InvalidateCards", mock.Anything, "ich_1").Return(nil)

		_, err := f.cachedService().CreateCard(context.Background(), "ich_1", models.CreateCardInput{Type: "virtual", Currency: "usd"})
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("platform failure creates nothing locally", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("card_declined")
		f.platform.On("SearchCardholder", mock.Anything, "ich_1").Return(testCardholder(), nil)
		f.platform.On("CreateCard", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		_, err := f.service().CreateCard(context.Background(), "ich_1", models.CreateCardInput{Type: "virtual", Currency: "usd"})
		assert.ErrorIs(t, err, boom)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure after issuing is surfaced", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("duplicate key")
		f.platform.On("SearchCardholder", mock.Anything, "ich_1").Return(testCardholder(), nil)
		f.platform.On("CreateCard", mock.Anything, mock.Anything, mock.Anything).Return(issuedCard("virtual"), nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(boom)

		card, err := f.service().CreateCard(context.Background(), "ich_1", models.CreateCardInput{Type: "virtual", Currency: "usd"})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, card)
	})
}

func TestCardService_UpdateCardStatus(t *testing.T) {
	input := models.UpdateCardStatusInput{CardID: "ic_1", Status: models.CardStatusCanceled}

	t.Run("unknown card fails without calling the platform", func(t *testing.T) {
		f := newFixture()
		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_2", "canceled", mock.Anything).
			Return(nil, repositories.ErrCardNotFound)

		_, err := f.service().UpdateCardStatus(context.Background(), "ich_2", input)
		assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
		f.platform.AssertNotCalled(t, "UpdateCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.intents.AssertNotCalled(t, "MarkApplied", mock.Anything, mock.Anything)
	})

	t.Run("local write then platform with the intent id as idempotency key", func(t *testing.T) {
		f := newFixture()
		var intent *models.CardSyncIntent
		var key string
		updated := &models.Card{ID: "c1", CardID: "ic_1", CardholderID: "ich_1", Status: "canceled"}

		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_1", "canceled", mock.AnythingOfType("*models.CardSyncIntent")).
			Run(func(args mock.Arguments) { intent = args.Get(4).(*models.CardSyncIntent) }).
			Return(updated, nil)
		f.platform.On("UpdateCard", mock.Anything, "ic_1", models.CardPatch{Status: "canceled"}, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { key = args.String(3) }).
			Return(nil)
		f.intents.On("MarkApplied", mock.Anything, mock.AnythingOfType("string")).Return(nil)

		card, err := f.service().UpdateCardStatus(context.Background(), "ich_1", input)
		require.NoError(t, err)
		assert.Equal(t, updated, card)

		require.NotNil(t, intent)
		assert.Equal(t, models.IntentKindStatus, intent.Kind)
		assert.Equal(t, models.IntentStatePending, intent.State)
		assert.Equal(t, intent.ID, key)
		f.intents.AssertCalled(t, "MarkApplied", mock.Anything, intent.ID)
		f.assertExpectations(t)
	})

	t.Run("platform failure keeps the local write and records divergence", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("stripe unavailable")
		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_1", "canceled", mock.Anything).
			Return(&models.Card{CardID: "ic_1", Status: "canceled"}, nil)
		f.platform.On("UpdateCard", mock.Anything, "ic_1", mock.Anything, mock.Anything).Return(boom)
		f.intents.On("MarkFailed", mock.Anything, mock.AnythingOfType("string"), boom).Return(nil)

		_, err := f.service().UpdateCardStatus(context.Background(), "ich_1", input)
		assert.ErrorIs(t, err, boom)
		f.intents.AssertNotCalled(t, "MarkApplied", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("cache is invalidated after the local write", func(t *testing.T) {
		f := newFixture()
		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_1", "canceled", mock.Anything).
			Return(&models.Card{CardID: "ic_1", Status: "canceled"}, nil)
		f.cache.On("InvalidateCards", mock.Anything, "ich_1").Return(nil)
		f.platform.On("UpdateCard", mock.Anything, "ic_1", mock.Anything, mock.Anything).Return(nil)
		f.intents.On("MarkApplied", mock.Anything, mock.Anything).Return(nil)

		_, err := f.cachedService().UpdateCardStatus(context.Background(), "ich_1", input)
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("cache is invalidated again after the platform call", func(t *testing.T) {
		f := newFixture()
		var events []string
		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_1", "canceled", mock.Anything).
			Run(func(mock.Arguments) { events = append(events, "store") }).
			Return(&models.Card{CardID: "ic_1", Status: "canceled"}, nil)
		f.cache.On("InvalidateCards", mock.Anything, "ich_1").
			Run(func(mock.Arguments) { events = append(events, "invalidate") }).
			Return(nil)
		f.platform.On("UpdateCard", mock.Anything, "ic_1", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { events = append(events, "platform") }).
			Return(nil)
		f.intents.On("MarkApplied", mock.Anything, mock.Anything).Return(nil)

		_, err := f.cachedService().UpdateCardStatus(context.Background(), "ich_1", input)
		require.NoError(t, err)
		assert.Equal(t, []string{"store", "invalidate", "platform", "invalidate"}, events)
		f.assertExpectations(t)
	})

	t.Run("cache is invalidated again when the platform fails", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("stripe unavailable")
		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_1", "canceled", mock.Anything).
			Return(&models.Card{CardID: "ic_1", Status: "canceled"}, nil)
		f.cache.On("InvalidateCards", mock.Anything, "ich_1").Return(nil).Twice()
		f.platform.On("UpdateCard", mock.Anything, "ic_1", mock.Anything, mock.Anything).Return(boom)
		f.intents.On("MarkFailed", mock.Anything, mock.Anything, boom).Return(nil)

		_, err := f.cachedService().UpdateCardStatus(context.Background(), "ich_1", input)
		assert.ErrorIs(t, err, boom)
		f.assertExpectations(t)
	})

	t.Run("concurrent updates both succeed", func(t *testing.T) {
		f := newFixture()
		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_1", "inactive", mock.Anything).
			Return(&models.Card{CardID: "ic_1", Status: "inactive"}, nil)
		f.repo.On("UpdateStatus", mock.Anything, "ic_1", "ich_1", "active", mock.Anything).
			Return(&models.Card{CardID: "ic_1", Status: "active"}, nil)
		f.platform.On("UpdateCard", mock.Anything, "ic_1", mock.Anything, mock.Anything).Return(nil)
		f.intents.On("MarkApplied", mock.Anything, mock.Anything).Return(nil)

		svc := f.service()
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, status := range []string{"inactive", "active"} {
			wg.Add(1)
			go func(i int, status string) {
				defer wg.Done()
				_, errs[i] = svc.UpdateCardStatus(context.Background(), "ich_1", models.UpdateCardStatusInput{CardID: "ic_1", Status: status})
			}(i, status)
		}
		wg.Wait()

		assert.NoError(t, errs[0])
		assert.NoError(t, errs[1])
		// last platform call wins; nothing orders the two
		f.platform.AssertNumberOfCalls(t, "UpdateCard", 2)
	})
}

func TestCardService_UpdateCardLimits(t *testing.T) {
	t.Run("replaces limits and sends both intervals", func(t *testing.T) {
		f := newFixture()
		input := models.UpdateCardLimitsInput{CardID: "ic_1", MonthlyLimit: int64Ptr(200000)}
		want := &models.CardLimits{MonthlyLimit: int64Ptr(200000)}
		var patch models.CardPatch

		f.repo.On("UpdateLimits", mock.Anything, "ic_1", "ich_1", want, mock.AnythingOfType("*models.CardSyncIntent")).
			Return(&models.Card{CardID: "ic_1", Limits: want}, nil)
		f.platform.On("UpdateCard", mock.Anything, "ic_1", mock.AnythingOfType("models.CardPatch"), mock.Anything).
			Run(func(args mock.Arguments) { patch = args.Get(2).(models.CardPatch) }).
			Return(nil)
		f.intents.On("MarkApplied", mock.Anything, mock.Anything).Return(nil)

		card, err := f.service().UpdateCardLimits(context.Background(), "ich_1", input)
		require.NoError(t, err)
		assert.Nil(t, card.Limits.SingleTxLimit)

		assert.Empty(t, patch.Status)
		require.Len(t, patch.SpendingLimits, 2)
		assert.Equal(t, "monthly", patch.SpendingLimits[0].Interval)
		assert.Equal(t, int64(200000), *patch.SpendingLimits[0].Amount)
		assert.Equal(t, "per_authorization", patch.SpendingLimits[1].Interval)
		assert.Nil(t, patch.SpendingLimits[1].Amount)
		f.assertExpectations(t)
	})

	t.Run("unknown card fails without calling the platform", func(t *testing.T) {
		f := newFixture()
		f.repo.On("UpdateLimits", mock.Anything, "ic_9", "ich_1", mock.Anything, mock.Anything).
			Return(nil, repositories.ErrCardNotFound)

		_, err := f.service().UpdateCardLimits(context.Background(), "ich_1", models.UpdateCardLimitsInput{
			CardID:        "ic_9",
			MonthlyLimit:  int64Ptr(1),
			SingleTxLimit: int64Ptr(1),
		})
		assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
		f.platform.AssertNotCalled(t, "UpdateCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestShippingFor(t *testing.T) {
	holder := testCardholder()
	holder.FirstName = ""
	holder.LastName = "Lovelace"
	holder.Billing.Line2 = ""

	s := shippingFor(holder)
	assert.Equal(t, "Lovelace", s.Name)
	assert.Empty(t, s.Address.Line2)
	assert.Equal(t, "TX", s.Address.State)
	assert.Equal(t, issuing.ShippingServiceStandard, s.Service)
}

func TestNewService_RequiresDependencies(t *testing.T) {
	f := newFixture()
	assert.Panics(t, func() { NewService(nil, f.intents, f.platform, nil) })
	assert.Panics(t, func() { NewService(f.repo, nil, f.platform, nil) })
	assert.Panics(t, func() { NewService(f.repo, f.intents, nil, nil) })
}

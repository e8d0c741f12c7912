package verification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitychat/internal/common"
	"communitychat/internal/config"
	"communitychat/internal/dbmysql"
	"communitychat/internal/logging"
	"communitychat/internal/ratelimit"
)

type memoryRepo struct {
	mu        sync.Mutex
	rows      []dbmysql.PhoneVerification
	confirmed map[uint64]string
}

func (r *memoryRepo) Create(_ context.Context, v *dbmysql.PhoneVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = uint64(len(r.rows) + 1)
	r.rows = append(r.rows, *v)
	return nil
}

func (r *memoryRepo) Latest(_ context.Context, userID uint64, phone string) (*dbmysql.PhoneVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID && r.rows[i].Phone == phone {
			v := r.rows[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) Confirm(_ context.Context, userID uint64, phone string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.confirmed == nil {
		r.confirmed = map[uint64]string{}
	}
	r.confirmed[userID] = phone
	return nil
}

type sentCode struct{ phone, code string }

type recordingSender struct {
	sent []sentCode
}

func (s *recordingSender) SendCode(_ context.Context, phone, code string) error {
	s.sent = append(s.sent, sentCode{phone, code})
	return nil
}

type fixture struct {
	svc    *Service
	repo   *memoryRepo
	sender *recordingSender
	clock  clockwork.FakeClock
}

const addr = "10.0.0.5:51234"

var alice = common.Actor{UserID: 10, Handle: "alice", DisplayName: "Alice"}

func newFixture(t *testing.T) *fixture {
	clock := clockwork.NewFakeClockAt(epoch)
	limits, err := ratelimit.NewRegistry(config.RateLimitsConfig{
		Messages:          config.LimitConfig{MaxRequests: 10, Window: time.Minute},
		Images:            config.LimitConfig{MaxRequests: 5, Window: 5 * time.Minute},
		PhoneVerification: config.LimitConfig{MaxRequests: 3, Window: 5 * time.Minute},
	}, clock, logging.Discard())
	require.NoError(t, err)

	f := &fixture{repo: &memoryRepo{}, sender: &recordingSender{}, clock: clock}
	f.svc = NewService(f.repo, f.sender, limits, clock, logging.Discard())
	f.svc.newCode = func() (string, error) { return "123456", nil }
	return f
}

func TestRandomCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}

func TestService_RequestCode(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.RequestCode(context.Background(), alice, "+7 (912) 345-67-89", addr))

	require.Len(t, f.repo.rows, 1)
	row := f.repo.rows[0]
	assert.Equal(t, "+79123456789", row.Phone)
	assert.Equal(t, epoch.Add(10*time.Minute), row.ExpiresAt)
	assert.NotEqual(t, "123456", row.CodeHash)
	assert.NoError(t, common.CheckCode("123456", row.CodeHash))

	assert.Equal(t, []sentCode{{"+79123456789", "123456"}}, f.sender.sent)
}

func TestService_RequestCode_Rejects(t *testing.T) {
	f := newFixture(t)

	err := f.svc.RequestCode(context.Background(), common.Actor{}, "+79123456789", addr)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	err = f.svc.RequestCode(context.Background(), alice, "12-34", addr)
	ce, ok := common.AsChatError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeValidation, ce.Code)

	assert.Empty(t, f.repo.rows)
}

func TestService_RequestCode_RateLimitedPerAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.RequestCode(ctx, alice, "+79123456789", addr))
		f.clock.Advance(time.Second)
	}

	err := f.svc.RequestCode(ctx, alice, "+79123456789", "10.0.0.5:60000")
	ce, ok := common.AsChatError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeRateLimited, ce.Code)
	assert.Equal(t, 5*time.Minute-3*time.Second, ce.RetryAfter)

	// another address has its own quota
	assert.NoError(t, f.svc.RequestCode(ctx, alice, "+79123456789", "10.0.0.6:1"))
}

func TestService_ConfirmCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, alice, "+79123456789", addr))
	require.NoError(t, f.svc.RequestCode(ctx, alice, "+79123456789", addr))
	require.NoError(t, f.svc.ConfirmCode(ctx, alice, "+7 912 345 67 89", "123456", addr))

	assert.Equal(t, "+79123456789", f.repo.confirmed[alice.UserID])

	// success clears the address quota
	for i := 0; i < 3; i++ {
		assert.NoError(t, f.svc.RequestCode(ctx, alice, "+79123456789", addr))
	}
}

func TestService_ConfirmCode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		code  string
	}{
		{
			name: "wrong code",
			setup: func(f *fixture) {
				require.NoError(t, f.svc.RequestCode(context.Background(), alice, "+79123456789", addr))
			},
			code: "654321",
		},
		{
			name: "expired code",
			setup: func(f *fixture) {
				require.NoError(t, f.svc.RequestCode(context.Background(), alice, "+79123456789", addr))
				f.clock.Advance(codeTTL)
			},
			code: "123456",
		},
		{
			name:  "nothing requested",
			setup: func(f *fixture) {},
			code:  "123456",
		},
		{
			name:  "malformed code",
			setup: func(f *fixture) {},
			code:  "12ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.svc.ConfirmCode(context.Background(), alice, "+79123456789", tt.code, addr)
			ce, ok := common.AsChatError(err)
			require.True(t, ok)
			assert.Equal(t, common.CodeValidation, ce.Code)
			assert.Empty(t, f.repo.confirmed)
		})
	}
}

func TestService_ConfirmCode_AttemptsAreLimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, alice, "+79123456789", addr))
	for i := 0; i < 2; i++ {
		err := f.svc.ConfirmCode(ctx, alice, "+79123456789", "000000", addr)
		ce, _ := common.AsChatError(err)
		require.NotNil(t, ce)
		assert.Equal(t, common.CodeValidation, ce.Code)
	}

	err := f.svc.ConfirmCode(ctx, alice, "+79123456789", "123456", addr)
	ce, ok := common.AsChatError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeRateLimited, ce.Code)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "********6789", maskPhone("+79123456789"))
	assert.Equal(t, "123", maskPhone("123"))
}

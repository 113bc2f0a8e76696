package installment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/undo"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params installment.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *installment.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: installment.CreateParams{
					Description:  "Office rent",
					Counterparty: "Imobiliaria Central",
					Amount:       150000,
					DueDate:      time.Now().AddDate(0, 1, 0),
					Category:     "rent",
					EntityID:     uuid.New(),
				},
			},
			setupMock: func(m *installment.MockRepository) {
				m.EXPECT().
					CreateInstallment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inst *installment.Installment) error {
						inst.ID = uuid.New()
						inst.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "RepoError",
			args: args{
				params: installment.CreateParams{Amount: 500},
			},
			setupMock: func(m *installment.MockRepository) {
				m.EXPECT().
					CreateInstallment(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := installment.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			journal := undo.NewJournal(undo.DefaultCapacity)
			svc := installment.NewService(repo, journal)

			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				assert.Zero(t, journal.Len())

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, installment.StatusOpen, got.Status)

			// The insert lands in the journal as a reversible action.
			actions := journal.List()
			require.Len(t, actions, 1)
			assert.Equal(t, undo.KindInsert, actions[0].Kind)
			assert.Equal(t, installment.Table, actions[0].Table)
		})
	}
}

func TestService_CreateSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	stx := installment.NewMockSeriesTx(ctrl)
	journal := undo.NewJournal(undo.DefaultCapacity)
	svc := installment.NewService(repo, journal)

	params := []installment.CreateParams{
		{Description: "Rent 1/2", Amount: 5000, DueDate: time.Now().AddDate(0, 1, 0)},
		{Description: "Rent 2/2", Amount: 5000, DueDate: time.Now().AddDate(0, 2, 0)},
	}

	repo.EXPECT().BeginSeries(gomock.Any()).Return(stx, nil)
	stx.EXPECT().
		CreateInstallments(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, insts []*installment.Installment) error {
			for _, inst := range insts {
				inst.ID = uuid.New()
			}
			return nil
		})
	stx.EXPECT().Commit().Return(nil)
	stx.EXPECT().Rollback().Return(nil)

	insts, err := svc.CreateSeries(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, insts, 2)

	// One insert action per created row, newest first.
	actions := journal.List()
	require.Len(t, actions, 2)
	assert.Equal(t, undo.KindInsert, actions[0].Kind)
	assert.Equal(t, undo.KindInsert, actions[1].Kind)
}

func TestService_CreateSeries_FailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	stx := installment.NewMockSeriesTx(ctrl)
	journal := undo.NewJournal(undo.DefaultCapacity)
	svc := installment.NewService(repo, journal)

	params := []installment.CreateParams{
		{Description: "Rent 1/2", Amount: 5000, DueDate: time.Now()},
	}

	repo.EXPECT().BeginSeries(gomock.Any()).Return(stx, nil)
	stx.EXPECT().CreateInstallments(gomock.Any(), gomock.Any()).Return(errors.New("constraint violation"))
	stx.EXPECT().Rollback().Return(nil)

	insts, err := svc.CreateSeries(context.Background(), params)
	assert.Error(t, err)
	assert.Nil(t, insts)
	assert.Zero(t, journal.Len())
}

func TestService_CreateSeries_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	svc := installment.NewService(repo, undo.NewJournal(undo.DefaultCapacity))

	insts, err := svc.CreateSeries(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, insts)
}

func TestService_RegisterPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	journal := undo.NewJournal(undo.DefaultCapacity)
	svc := installment.NewService(repo, journal)

	id := uuid.New()
	existing := &installment.Installment{
		ID:           id,
		Description:  "Office rent",
		Counterparty: "Imobiliaria Central",
		Amount:       150000,
		DueDate:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:       installment.StatusOpen,
		Notes:        "keys handed over",
	}

	payDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().GetInstallment(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateInstallment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inst *installment.Installment) error {
			assert.Equal(t, installment.StatusPaid, inst.Status)
			require.NotNil(t, inst.PaymentDate)
			assert.Equal(t, payDate, *inst.PaymentDate)
			assert.Equal(t, "keys handed over\nbank transfer", inst.Notes)
			return nil
		})

	got, err := svc.RegisterPayment(context.Background(), id, payDate, "bank transfer")
	require.NoError(t, err)
	assert.Equal(t, installment.StatusPaid, got.Status)

	// The journaled update carries the pre-payment snapshot.
	actions := journal.List()
	require.Len(t, actions, 1)
	assert.Equal(t, undo.KindUpdate, actions[0].Kind)
	assert.Contains(t, string(actions[0].Prior), `"keys handed over"`)
}

func TestService_RegisterPayment_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	svc := installment.NewService(repo, undo.NewJournal(undo.DefaultCapacity))

	id := uuid.New()
	repo.EXPECT().GetInstallment(gomock.Any(), id).Return(nil, installment.ErrNotFound)

	_, err := svc.RegisterPayment(context.Background(), id, time.Now(), "")
	assert.ErrorIs(t, err, installment.ErrNotFound)
}

func TestService_CancelPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	journal := undo.NewJournal(undo.DefaultCapacity)
	svc := installment.NewService(repo, journal)

	id := uuid.New()
	payDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	existing := &installment.Installment{
		ID:          id,
		Description: "Office rent",
		DueDate:     time.Now().AddDate(0, 1, 0),
		Status:      installment.StatusPaid,
		PaymentDate: &payDate,
	}

	repo.EXPECT().GetInstallment(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateInstallment(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.CancelPayment(context.Background(), id)
	require.NoError(t, err)

	assert.Nil(t, got.PaymentDate)
	assert.Equal(t, installment.StatusOpen, got.Status)
	assert.Equal(t, 1, journal.Len())
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	journal := undo.NewJournal(undo.DefaultCapacity)
	svc := installment.NewService(repo, journal)

	id := uuid.New()
	existing := &installment.Installment{
		ID:          id,
		Description: "Office rent",
		Amount:      150000,
		DueDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	repo.EXPECT().GetInstallment(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().DeleteInstallment(gomock.Any(), id).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), id))

	// The journal holds the full row snapshot for a later reinsert.
	actions := journal.List()
	require.Len(t, actions, 1)
	assert.Equal(t, undo.KindDelete, actions[0].Kind)
	assert.Contains(t, string(actions[0].Payload), `"Office rent"`)
}

func TestService_ListUnpaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := installment.NewMockRepository(ctrl)
	svc := installment.NewService(repo, undo.NewJournal(undo.DefaultCapacity))

	payDate := time.Now().AddDate(0, 0, -1)
	repo.EXPECT().ListInstallments(gomock.Any(), installment.ListFilter{}).Return([]*installment.Installment{
		{ID: uuid.New(), Description: "future", DueDate: time.Now().AddDate(0, 1, 0)},
		{ID: uuid.New(), Description: "overdue", DueDate: time.Now().AddDate(0, -1, 0)},
		{ID: uuid.New(), Description: "paid", DueDate: time.Now(), PaymentDate: &payDate},
	}, nil)

	got, err := svc.ListUnpaid(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, installment.StatusOpen, got[0].Status)
	assert.Equal(t, installment.StatusOverdue, got[1].Status)
}

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	payDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name        string
		dueDate     time.Time
		paymentDate *time.Time
		want        installment.Status
	}

	tests := []testCase{
		{
			name:    "FutureDue",
			dueDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			want:    installment.StatusOpen,
		},
		{
			name:    "DueToday",
			dueDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want:    installment.StatusOpen,
		},
		{
			name:    "PastDue",
			dueDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			want:    installment.StatusOverdue,
		},
		{
			name:        "PaidWinsOverDue",
			dueDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			paymentDate: &payDate,
			want:        installment.StatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := installment.DeriveStatus(tt.dueDate, tt.paymentDate, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/queue"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

func uptr(v uint64) *uint64 { return &v }
func sptr(v string) *string { return &v }

func TestRefundLifecycleHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p := mustBook(t, env, 1, "A1")

	if _, err := env.paymentSvc.RequestRefund(ctx, p.ID, uptr(1), nil); err != nil {
		t.Fatalf("RequestRefund failed: %v", err)
	}
	if _, err := env.paymentSvc.StartProcessing(ctx, p.ID, uptr(9), sptr("batch 12")); err != nil {
		t.Fatalf("StartProcessing failed: %v", err)
	}
	got, err := env.paymentSvc.CompleteRefund(ctx, p.ID, uptr(9), nil)
	if err != nil {
		t.Fatalf("CompleteRefund failed: %v", err)
	}
	if got.Status != model.PaymentRefunded {
		t.Errorf("final status = %q, want %q", got.Status, model.PaymentRefunded)
	}

	// Three history rows, one per transition, in lifecycle order and
	// each linked to the status it left.
	hist, err := env.payments.ListByPayment(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByPayment failed: %v", err)
	}
	wantNew := []string{model.PaymentRefundPending, model.PaymentRefundProcessing, model.PaymentRefunded}
	wantOld := []string{model.PaymentCompleted, model.PaymentRefundPending, model.PaymentRefundProcessing}
	if len(hist) != len(wantNew) {
		t.Fatalf("history rows = %d, want %d", len(hist), len(wantNew))
	}
	for i, h := range hist {
		if h.NewStatus != wantNew[i] {
			t.Errorf("row %d: new = %q, want %q", i, h.NewStatus, wantNew[i])
		}
		if h.OldStatus == nil || *h.OldStatus != wantOld[i] {
			t.Errorf("row %d: old = %v, want %q", i, h.OldStatus, wantOld[i])
		}
		if i > 0 && h.CreatedAt.Before(hist[i-1].CreatedAt) {
			t.Errorf("row %d: timestamps out of order", i)
		}
	}

	kinds := env.notifier.seen()
	want := []string{queue.KindBookingConfirmed, queue.KindBookingCancelled, queue.KindRefundProcessing, queue.KindRefundCompleted}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("notification kinds = %v, want %v", kinds, want)
	}
}

func TestRefundTransitionsRejectSkipsAndReplays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p := mustBook(t, env, 1, "A2")

	// Skipping REFUND_PENDING is not allowed.
	if _, err := env.paymentSvc.StartProcessing(ctx, p.ID, nil, nil); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("skip err = %v, want ErrInvalidTransition", err)
	}
	if _, err := env.paymentSvc.CompleteRefund(ctx, p.ID, nil, nil); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("double skip err = %v, want ErrInvalidTransition", err)
	}

	if _, err := env.paymentSvc.RequestRefund(ctx, p.ID, nil, nil); err != nil {
		t.Fatalf("RequestRefund failed: %v", err)
	}
	// Replaying the transition that already happened must fail too.
	if _, err := env.paymentSvc.RequestRefund(ctx, p.ID, nil, nil); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("replay err = %v, want ErrInvalidTransition", err)
	}

	// A failed attempt never writes history.
	hist, _ := env.payments.ListByPayment(ctx, p.ID)
	if len(hist) != 1 {
		t.Errorf("history rows = %d, want 1", len(hist))
	}
}

func TestRefundedIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p := mustBook(t, env, 1, "A3")

	env.paymentSvc.RequestRefund(ctx, p.ID, nil, nil)
	env.paymentSvc.StartProcessing(ctx, p.ID, nil, nil)
	env.paymentSvc.CompleteRefund(ctx, p.ID, nil, nil)

	for name, fn := range map[string]func() (*model.Payment, error){
		"request":  func() (*model.Payment, error) { return env.paymentSvc.RequestRefund(ctx, p.ID, nil, nil) },
		"process":  func() (*model.Payment, error) { return env.paymentSvc.StartProcessing(ctx, p.ID, nil, nil) },
		"complete": func() (*model.Payment, error) { return env.paymentSvc.CompleteRefund(ctx, p.ID, nil, nil) },
	} {
		if _, err := fn(); !errors.Is(err, repository.ErrInvalidTransition) {
			t.Errorf("%s after REFUNDED: err = %v, want ErrInvalidTransition", name, err)
		}
	}
}

func TestBulkTransitionContinuesOnError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p1 := mustBook(t, env, 1, "B1")
	_, p2 := mustBook(t, env, 1, "B2")
	_, p3 := mustBook(t, env, 2, "B3")

	// p2 stays COMPLETED, so moving it to REFUND_PROCESSING must fail
	// while the other two succeed.
	env.paymentSvc.RequestRefund(ctx, p1.ID, nil, nil)
	env.paymentSvc.RequestRefund(ctx, p3.ID, nil, nil)

	res, err := env.paymentSvc.BulkTransition(ctx, []uint64{p1.ID, p2.ID, p3.ID}, model.PaymentRefundProcessing, uptr(9), nil)
	if err != nil {
		t.Fatalf("BulkTransition failed: %v", err)
	}
	if res.Processed != 2 || res.Total != 3 {
		t.Errorf("result = %+v, want {Processed:2 Total:3}", res)
	}

	for _, tc := range []struct {
		id   uint64
		want string
	}{
		{p1.ID, model.PaymentRefundProcessing},
		{p2.ID, model.PaymentCompleted},
		{p3.ID, model.PaymentRefundProcessing},
	} {
		got, _ := env.paymentSvc.GetByID(ctx, tc.id)
		if got.Status != tc.want {
			t.Errorf("payment %d: status = %q, want %q", tc.id, got.Status, tc.want)
		}
	}
}

func TestBulkTransitionUnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	_, p := mustBook(t, env, 1, "B4")

	for _, target := range []string{"completed", "DONE", model.PaymentCompleted, ""} {
		if _, err := env.paymentSvc.BulkTransition(context.Background(), []uint64{p.ID}, target, nil, nil); !errors.Is(err, ErrUnknownStatus) {
			t.Errorf("target %q: err = %v, want ErrUnknownStatus", target, err)
		}
	}
}

func TestBulkTransitionMissingPaymentCounted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p := mustBook(t, env, 1, "B5")

	res, err := env.paymentSvc.BulkTransition(ctx, []uint64{p.ID, 9999}, model.PaymentRefundPending, nil, nil)
	if err != nil {
		t.Fatalf("BulkTransition failed: %v", err)
	}
	if res.Processed != 1 || res.Total != 2 {
		t.Errorf("result = %+v, want {Processed:1 Total:2}", res)
	}
}

func TestTimelineSynthesizesInitialEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p := mustBook(t, env, 1, "C1")

	// No transitions yet: timeline is the synthetic capture event.
	tl, err := env.paymentSvc.Timeline(ctx, p.ID)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if len(tl) != 1 || !tl[0].Synthetic || tl[0].Status != model.PaymentCompleted {
		t.Fatalf("timeline = %+v, want single synthetic COMPLETED event", tl)
	}
	if !tl[0].At.Equal(p.CreatedAt) {
		t.Errorf("synthetic event at %v, want payment creation %v", tl[0].At, p.CreatedAt)
	}

	env.paymentSvc.RequestRefund(ctx, p.ID, uptr(1), nil)
	env.paymentSvc.StartProcessing(ctx, p.ID, uptr(9), sptr("manual review ok"))
	env.paymentSvc.CompleteRefund(ctx, p.ID, uptr(9), nil)

	tl, err = env.paymentSvc.Timeline(ctx, p.ID)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	wantStatuses := []string{
		model.PaymentCompleted,
		model.PaymentRefundPending,
		model.PaymentRefundProcessing,
		model.PaymentRefunded,
	}
	if len(tl) != len(wantStatuses) {
		t.Fatalf("timeline length = %d, want %d", len(tl), len(wantStatuses))
	}
	for i, ev := range tl {
		if ev.Status != wantStatuses[i] {
			t.Errorf("event %d: status = %q, want %q", i, ev.Status, wantStatuses[i])
		}
		if i > 0 && ev.At.Before(tl[i-1].At) {
			t.Errorf("event %d precedes event %d in time", i, i-1)
		}
	}
	if !tl[0].Synthetic {
		t.Errorf("head event not marked synthetic")
	}
	if tl[2].Notes == nil || *tl[2].Notes != "manual review ok" {
		t.Errorf("processing notes = %v, want %q", tl[2].Notes, "manual review ok")
	}

	// Reading the timeline is idempotent.
	again, err := env.paymentSvc.Timeline(ctx, p.ID)
	if err != nil {
		t.Fatalf("second Timeline failed: %v", err)
	}
	if !reflect.DeepEqual(tl, again) {
		t.Errorf("repeated Timeline reads differ:\n%+v\n%+v", tl, again)
	}
}

func TestTimelineUnknownPayment(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.paymentSvc.Timeline(context.Background(), 404); !errors.Is(err, repository.ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
}

func TestListByStatusFiltersWorkQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p1 := mustBook(t, env, 1, "D1")
	mustBook(t, env, 2, "D2")

	env.paymentSvc.RequestRefund(ctx, p1.ID, nil, nil)

	pending, err := env.paymentSvc.ListByStatus(ctx, model.PaymentRefundPending)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != p1.ID {
		t.Errorf("pending = %+v, want only payment %d", pending, p1.ID)
	}
	completed, _ := env.paymentSvc.ListByStatus(ctx, model.PaymentCompleted)
	if len(completed) != 1 {
		t.Errorf("completed = %+v, want one payment", completed)
	}
}

func TestTransitionSucceedsWhenNotifierFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, p := mustBook(t, env, 1, "E1")

	env.notifier.fail = true
	got, err := env.paymentSvc.RequestRefund(ctx, p.ID, nil, nil)
	if err != nil {
		t.Fatalf("RequestRefund failed: %v", err)
	}
	if got.Status != model.PaymentRefundPending {
		t.Errorf("status = %q, want %q", got.Status, model.PaymentRefundPending)
	}
}

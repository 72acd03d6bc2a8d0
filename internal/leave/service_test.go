package leave_test

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/testdb"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func validationCodes(err error) []string {
	appErr, ok := apperrors.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected an AppError, got %v", err)
	Expect(appErr.StatusCode).To(Equal(400))
	details, ok := appErr.Details.(apperrors.ValidationErrors)
	Expect(ok).To(BeTrue())
	var codes []string
	for _, e := range details.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}

type fixture struct {
	db        *gorm.DB
	users     *user.Service
	svc       *leave.Service
	publisher *capturePublisher
	now       time.Time
	employee  *user.User
	admin     *user.User
}

func newFixture() *fixture {
	db, err := testdb.Open()
	Expect(err).NotTo(HaveOccurred())

	f := &fixture{
		db:        db,
		publisher: &capturePublisher{},
		now:       time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
	}
	f.users = user.NewService(userPostgres.NewUserRepository(db), logger.Discard(), user.WithBcryptCost(bcrypt.MinCost))
	f.svc = leave.NewService(leavePostgres.NewLeaveRepository(db), f.publisher, logger.Discard(),
		leave.WithClock(func() time.Time { return f.now }))

	ctx := context.Background()
	f.employee, err = f.users.Create(ctx, user.Profile{Email: "e@co.com", Password: "pw123"})
	Expect(err).NotTo(HaveOccurred())
	f.admin, err = f.users.Create(ctx, user.Profile{Email: "admin@co.com", Password: "secret", Role: user.RoleAdmin})
	Expect(err).NotTo(HaveOccurred())
	return f
}

func request(leaveType, start, end, reason string) leave.CreateLeaveDTO {
	return leave.CreateLeaveDTO{LeaveType: leaveType, StartDate: start, EndDate: end, Reason: reason}
}

var _ = Describe("Leave workflow engine", func() {
	var (
		ctx context.Context
		f   *fixture
	)

	BeforeEach(func() {
		ctx = context.Background()
		f = newFixture()
	})

	Describe("Create", func() {
		It("stores a pending request with derived day count", func() {
			l, err := f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-10", "2025-03-14", "  trip  "))
			Expect(err).NotTo(HaveOccurred())

			Expect(l.ID).NotTo(BeEmpty())
			Expect(l.Status).To(Equal(leave.StatusPending))
			Expect(l.TotalDays).To(Equal(5))
			Expect(l.Reason).To(Equal("trip"))
			Expect(l.AppliedAt).To(Equal(f.now))
			Expect(l.ReviewerID).To(BeNil())
			Expect(f.publisher.events).To(HaveLen(1))
			Expect(f.publisher.events[0].EventType()).To(Equal(events.EventTypeLeaveCreated))
		})

		It("accepts a start date of today", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("sick", "2025-03-01", "2025-03-01", "flu"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a start date of yesterday", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("sick", "2025-02-28", "2025-03-01", "flu"))
			Expect(validationCodes(err)).To(ContainElement(string(apperrors.ErrCodeDateInPast)))
		})

		It("rejects an end date before the start date", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("sick", "2025-03-05", "2025-03-04", "flu"))
			Expect(validationCodes(err)).To(ContainElement(string(apperrors.ErrCodeInvalidRange)))
		})

		It("rejects ranges longer than the ceiling", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-01", "2025-03-31", "long"))
			Expect(validationCodes(err)).To(ContainElement(string(apperrors.ErrCodeRangeTooLong)))

			_, err = f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-01", "2025-03-30", "long"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports every missing field", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, leave.CreateLeaveDTO{})
			Expect(validationCodes(err)).To(HaveLen(4))
		})

		It("rejects unparseable dates and unknown types", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("holiday", "03/10/2025", "2025-03-12", "x"))
			Expect(validationCodes(err)).To(ConsistOf(
				string(apperrors.ErrCodeInvalidLeaveType),
				string(apperrors.ErrCodeInvalidDate),
			))
		})

		It("limits the reason to 500 characters", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("other", "2025-03-10", "2025-03-10", strings.Repeat("a", 501)))
			Expect(validationCodes(err)).To(ContainElement(string(apperrors.ErrCodeTooLong)))

			_, err = f.svc.Create(ctx, f.employee.ID, request("other", "2025-03-10", "2025-03-10", strings.Repeat("a", 500)))
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses overlapping requests and allows adjacent ones", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-10", "2025-03-12", "first"))
			Expect(err).NotTo(HaveOccurred())

			_, err = f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-11", "2025-03-15", "second"))
			Expect(err).To(MatchError(leave.ErrOverlapConflict))

			_, err = f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-13", "2025-03-14", "third"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("ignores rejected requests when checking overlap", func() {
			first, err := f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-10", "2025-03-12", "first"))
			Expect(err).NotTo(HaveOccurred())
			_, err = f.svc.Decide(ctx, first.ID, f.admin.ID, leave.DecideLeaveDTO{Status: "rejected"})
			Expect(err).NotTo(HaveOccurred())

			_, err = f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-11", "2025-03-12", "retry"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("still blocks overlap with an approved request", func() {
			first, err := f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-10", "2025-03-12", "first"))
			Expect(err).NotTo(HaveOccurred())
			_, err = f.svc.Decide(ctx, first.ID, f.admin.ID, leave.DecideLeaveDTO{Status: "approved"})
			Expect(err).NotTo(HaveOccurred())

			_, err = f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-12", "2025-03-12", "again"))
			Expect(err).To(MatchError(leave.ErrOverlapConflict))
		})

		It("checks overlap per owner", func() {
			other, err := f.users.Create(ctx, user.Profile{Email: "o@co.com", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())

			_, err = f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-10", "2025-03-12", "mine"))
			Expect(err).NotTo(HaveOccurred())
			_, err = f.svc.Create(ctx, other.ID, request("vacation", "2025-03-10", "2025-03-12", "theirs"))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ListByOwner", func() {
		It("round-trips the submitted fields, newest first", func() {
			first, err := f.svc.Create(ctx, f.employee.ID, request("sick", "2025-03-02", "2025-03-02", "flu"))
			Expect(err).NotTo(HaveOccurred())
			f.now = f.now.Add(time.Hour)
			second, err := f.svc.Create(ctx, f.employee.ID, request("personal", "2025-03-20", "2025-03-21", "move"))
			Expect(err).NotTo(HaveOccurred())

			leaves, err := f.svc.ListByOwner(ctx, f.employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(HaveLen(2))
			Expect(leaves[0].ID).To(Equal(second.ID))
			Expect(leaves[1].ID).To(Equal(first.ID))

			got := leaves[0]
			Expect(got.OwnerID).To(Equal(f.employee.ID))
			Expect(got.LeaveType).To(Equal(leave.LeaveTypePersonal))
			Expect(got.StartDate.Format(leave.DateLayout)).To(Equal("2025-03-20"))
			Expect(got.EndDate.Format(leave.DateLayout)).To(Equal("2025-03-21"))
			Expect(got.Reason).To(Equal("move"))
			Expect(got.TotalDays).To(Equal(2))
			Expect(got.Status).To(Equal(leave.StatusPending))
			Expect(got.AppliedAt.IsZero()).To(BeFalse())
		})

		It("returns only the owner's requests", func() {
			other, err := f.users.Create(ctx, user.Profile{Email: "o@co.com", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())
			_, err = f.svc.Create(ctx, other.ID, request("sick", "2025-03-02", "2025-03-02", "flu"))
			Expect(err).NotTo(HaveOccurred())

			leaves, err := f.svc.ListByOwner(ctx, f.employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(BeEmpty())
		})
	})

	Describe("ListAll", func() {
		It("includes owner display data", func() {
			_, err := f.svc.Create(ctx, f.employee.ID, request("sick", "2025-03-02", "2025-03-02", "flu"))
			Expect(err).NotTo(HaveOccurred())

			leaves, err := f.svc.ListAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(HaveLen(1))
			Expect(leaves[0].Owner).NotTo(BeNil())
			Expect(leaves[0].Owner.Name).To(Equal("e"))
			Expect(leaves[0].Owner.Email).To(Equal("e@co.com"))
			Expect(leaves[0].Owner.Department).To(Equal(user.DepartmentGeneral))
		})
	})

	Describe("Decide", func() {
		var pending *leave.Leave

		BeforeEach(func() {
			var err error
			pending, err = f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-03-10", "2025-03-12", "trip"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("records the reviewer, comments and time", func() {
			f.now = f.now.Add(2 * time.Hour)
			decided, err := f.svc.Decide(ctx, pending.ID, f.admin.ID, leave.DecideLeaveDTO{Status: "approved", Comments: "ok"})
			Expect(err).NotTo(HaveOccurred())

			Expect(decided.Status).To(Equal(leave.StatusApproved))
			Expect(decided.AdminComments).To(Equal("ok"))
			Expect(decided.ReviewerID).To(HaveValue(Equal(f.admin.ID)))
			Expect(decided.ReviewedAt).NotTo(BeNil())
			Expect(decided.ReviewedAt.Equal(f.now)).To(BeTrue())
			Expect(decided.Reviewer).NotTo(BeNil())
			Expect(decided.Reviewer.Name).To(Equal("admin"))
		})

		It("defaults comments to empty", func() {
			decided, err := f.svc.Decide(ctx, pending.ID, f.admin.ID, leave.DecideLeaveDTO{Status: "rejected"})
			Expect(err).NotTo(HaveOccurred())
			Expect(decided.AdminComments).To(BeEmpty())
		})

		It("fires only once", func() {
			_, err := f.svc.Decide(ctx, pending.ID, f.admin.ID, leave.DecideLeaveDTO{Status: "approved", Comments: "ok"})
			Expect(err).NotTo(HaveOccurred())

			_, err = f.svc.Decide(ctx, pending.ID, f.admin.ID, leave.DecideLeaveDTO{Status: "rejected", Comments: "changed my mind"})
			Expect(err).To(MatchError(leave.ErrIllegalTransition))

			stored, err := f.svc.FindByID(ctx, pending.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(leave.StatusApproved))
			Expect(stored.AdminComments).To(Equal("ok"))
		})

		It("reports unknown requests", func() {
			_, err := f.svc.Decide(ctx, "missing", f.admin.ID, leave.DecideLeaveDTO{Status: "approved"})
			Expect(err).To(MatchError(leave.ErrNotFound))
		})

		It("accepts only approved or rejected", func() {
			for _, status := range []string{"", "pending", "cancelled", "APPROVED"} {
				_, err := f.svc.Decide(ctx, pending.ID, f.admin.ID, leave.DecideLeaveDTO{Status: status})
				Expect(validationCodes(err)).NotTo(BeEmpty(), status)
			}
		})

		It("limits comments to 200 characters", func() {
			_, err := f.svc.Decide(ctx, pending.ID, f.admin.ID, leave.DecideLeaveDTO{Status: "approved", Comments: strings.Repeat("c", 201)})
			Expect(validationCodes(err)).To(ContainElement(string(apperrors.ErrCodeTooLong)))
		})

		It("lets exactly one of several concurrent decisions win", func() {
			const attempts = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				illegal   int
			)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					status := "approved"
					if i%2 == 1 {
						status = "rejected"
					}
					_, err := f.svc.Decide(ctx, pending.ID, f.admin.ID, leave.DecideLeaveDTO{Status: status})
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					default:
						Expect(err).To(MatchError(leave.ErrIllegalTransition))
						illegal++
					}
				}(i)
			}
			wg.Wait()

			Expect(successes).To(Equal(1))
			Expect(illegal).To(Equal(attempts - 1))
		})
	})
})

var _ = Describe("End-to-end leave lifecycle", func() {
	It("lets an employee apply and an admin approve", func() {
		ctx := context.Background()
		f := newFixture()
		f.now = time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)

		created, err := f.svc.Create(ctx, f.employee.ID, request("vacation", "2025-06-01", "2025-06-03", "trip"))
		Expect(err).NotTo(HaveOccurred())
		Expect(created.TotalDays).To(Equal(3))
		Expect(created.Status).To(Equal(leave.StatusPending))

		all, err := f.svc.ListAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))
		Expect(all[0].Status).To(Equal(leave.StatusPending))

		_, err = f.svc.Decide(ctx, all[0].ID, f.admin.ID, leave.DecideLeaveDTO{Status: "approved", Comments: "ok"})
		Expect(err).NotTo(HaveOccurred())

		mine, err := f.svc.ListByOwner(ctx, f.employee.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
		Expect(mine[0].Status).To(Equal(leave.StatusApproved))
		Expect(mine[0].ReviewerID).To(HaveValue(Equal(f.admin.ID)))
	})
})

package leave_test

import (
	"time"

	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func date(s string) time.Time {
	d, err := leave.ParseDate(s)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Day count", func() {
	DescribeTable("TotalDays is inclusive",
		func(start, end string, want int) {
			Expect(leave.TotalDays(date(start), date(end))).To(Equal(want))
		},
		Entry("same day", "2025-03-10", "2025-03-10", 1),
		Entry("three days", "2025-06-01", "2025-06-03", 3),
		Entry("five calendar days", "2025-03-10", "2025-03-14", 5),
		Entry("across a month end", "2025-01-30", "2025-02-02", 4),
		Entry("across a DST change", "2025-03-08", "2025-03-10", 3),
		Entry("reversed range floors at one", "2025-03-10", "2025-03-01", 1),
	)

	It("counts eight hours per day", func() {
		l := &leave.Leave{TotalDays: 3}
		Expect(l.TotalHours()).To(Equal(24))
	})
})

var _ = Describe("Status", func() {
	It("treats pending and approved as holding their dates", func() {
		Expect(leave.ActiveStatuses()).To(ConsistOf(leave.StatusPending, leave.StatusApproved))
		Expect(leave.StatusRejected.IsActive()).To(BeFalse())
		Expect(leave.StatusCancelled.IsActive()).To(BeFalse())
	})

	It("only lets a reviewer approve or reject", func() {
		Expect(leave.DecisionStatuses()).To(ConsistOf(leave.StatusApproved, leave.StatusRejected))
		Expect(leave.StatusPending.IsDecision()).To(BeFalse())
		Expect(leave.StatusCancelled.IsDecision()).To(BeFalse())
	})
})

var _ = Describe("ParseDate", func() {
	It("parses calendar dates at UTC midnight", func() {
		d, err := leave.ParseDate("2025-06-01")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	})

	It("rejects anything else", func() {
		for _, bad := range []string{"", "06/01/2025", "2025-13-01", "2025-06-01T10:00:00Z", "tomorrow"} {
			_, err := leave.ParseDate(bad)
			Expect(err).To(HaveOccurred(), bad)
		}
	})
})

var _ = Describe("Leave types", func() {
	It("lists the closed enum", func() {
		var values []leave.LeaveType
		for _, t := range leave.Types() {
			values = append(values, t.Value)
			Expect(t.Description).NotTo(BeEmpty())
		}
		Expect(values).To(Equal([]leave.LeaveType{
			leave.LeaveTypeSick, leave.LeaveTypeVacation, leave.LeaveTypePersonal,
			leave.LeaveTypeMaternity, leave.LeaveTypePaternity, leave.LeaveTypeBereavement,
			leave.LeaveTypeOther,
		}))
	})
})

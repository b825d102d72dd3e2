package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/internal/data/repository"
	"training-scheduler/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes. The Repository zero value has no pool,
// so WithinTx runs the callback against the same fakes without a real
// transaction.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	locks    []string

	createErr error
	updateErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func copyBooking(b *entity.Booking) *entity.Booking {
	clone := *b
	if b.MaxStudents != nil {
		max := *b.MaxStudents
		clone.MaxStudents = &max
	}
	return &clone
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(booking), nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.bookings[booking.ID]; !ok {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}
	f.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) UpdateEnrolledCount(_ context.Context, id uuid.UUID, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	booking.EnrolledCount = count
	return nil
}

func (f *fakeBookingRepo) FindOverlapping(_ context.Context, dimension entity.ConflictDimension, resourceID uuid.UUID, date, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*entity.Booking
	for _, booking := range f.bookings {
		if !booking.Active() {
			continue
		}
		if excludeID != nil && booking.ID == *excludeID {
			continue
		}
		if !booking.SessionDate.Equal(date) {
			continue
		}
		switch dimension {
		case entity.DimensionInstructor:
			if booking.InstructorID != resourceID {
				continue
			}
		case entity.DimensionLocation:
			if booking.LocationID != resourceID {
				continue
			}
		}
		if !Overlaps(start, end, booking.StartTime, booking.EndTime) {
			continue
		}
		result = append(result, copyBooking(booking))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (f *fakeBookingRepo) FindActiveInRange(_ context.Context, from, to time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*entity.Booking
	for _, booking := range f.bookings {
		if !booking.Active() {
			continue
		}
		if booking.SessionDate.Before(from) || booking.SessionDate.After(to) {
			continue
		}
		result = append(result, copyBooking(booking))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].SessionDate.Equal(result[j].SessionDate) {
			return result[i].SessionDate.Before(result[j].SessionDate)
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (f *fakeBookingRepo) AcquireSlotLock(_ context.Context, dimension entity.ConflictDimension, resourceID uuid.UUID, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, fmt.Sprintf("%s|%s|%s", dimension, resourceID, utils.FormatDate(date)))
	return nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[uuid.UUID][]*entity.GroupAssignment
	// members maps group id to its active students.
	members map[uuid.UUID][]uuid.UUID
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		assignments: make(map[uuid.UUID][]*entity.GroupAssignment),
		members:     make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeAssignmentRepo) CreateBatch(_ context.Context, assignments []*entity.GroupAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, assignment := range assignments {
		clone := *assignment
		f.assignments[assignment.BookingID] = append(f.assignments[assignment.BookingID], &clone)
	}
	return nil
}

func (f *fakeAssignmentRepo) DeleteByBookingID(_ context.Context, bookingID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := int64(len(f.assignments[bookingID]))
	delete(f.assignments, bookingID)
	return removed, nil
}

func (f *fakeAssignmentRepo) FindActiveByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.GroupAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.GroupAssignment
	for _, assignment := range f.assignments[bookingID] {
		if assignment.Status != entity.AssignmentStatusActive {
			continue
		}
		clone := *assignment
		result = append(result, &clone)
	}
	return result, nil
}

func (f *fakeAssignmentRepo) ActiveStudentIDs(_ context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[uuid.UUID]struct{})
	var studentIDs []uuid.UUID
	for _, assignment := range f.assignments[bookingID] {
		if assignment.Status != entity.AssignmentStatusActive {
			continue
		}
		for _, studentID := range f.members[assignment.GroupID] {
			if _, ok := seen[studentID]; ok {
				continue
			}
			seen[studentID] = struct{}{}
			studentIDs = append(studentIDs, studentID)
		}
	}

	sort.Slice(studentIDs, func(i, j int) bool { return studentIDs[i].String() < studentIDs[j].String() })
	return studentIDs, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*entity.AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[uuid.UUID]*entity.AttendanceRecord)}
}

func copyAttendance(r *entity.AttendanceRecord) *entity.AttendanceRecord {
	clone := *r
	if r.CheckInTime != nil {
		checkIn := *r.CheckInTime
		clone.CheckInTime = &checkIn
	}
	if r.CheckOutTime != nil {
		checkOut := *r.CheckOutTime
		clone.CheckOutTime = &checkOut
	}
	if r.Score != nil {
		score := *r.Score
		clone.Score = &score
	}
	return &clone
}

func (f *fakeAttendanceRepo) CreateBatch(_ context.Context, records []*entity.AttendanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range records {
		f.records[record.ID] = copyAttendance(record)
	}
	return nil
}

func (f *fakeAttendanceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return copyAttendance(record), nil
}

func (f *fakeAttendanceRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.AttendanceRecord
	for _, record := range f.records {
		if record.BookingID == bookingID {
			result = append(result, copyAttendance(record))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID.String() < result[j].StudentID.String() })
	return result, nil
}

func (f *fakeAttendanceRepo) CountByBookingID(_ context.Context, bookingID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, record := range f.records {
		if record.BookingID == bookingID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, record *entity.AttendanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return fmt.Errorf("attendance record %s not found", record.ID.String())
	}
	f.records[record.ID] = copyAttendance(record)
	return nil
}

type fakeCourseRepo struct{}

func (fakeCourseRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Course, error) {
	return &entity.Course{Base: entity.Base{ID: id}, Name: "course", IsActive: true}, nil
}

type fakeActivityTypeRepo struct{}

func (fakeActivityTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ActivityType, error) {
	return &entity.ActivityType{Base: entity.Base{ID: id}, Name: "activity", IsActive: true}, nil
}

type fakeInstructorRepo struct{}

func (fakeInstructorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Instructor, error) {
	return &entity.Instructor{Base: entity.Base{ID: id}, FullName: "instructor", IsActive: true}, nil
}

type fakeLocationRepo struct{}

func (fakeLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Location, error) {
	return &entity.Location{Base: entity.Base{ID: id}, Name: "location", IsActive: true}, nil
}

type fakeGroupRepo struct {
	mu     sync.Mutex
	groups map[uuid.UUID]bool
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[uuid.UUID]bool)}
}

func (f *fakeGroupRepo) add(ids ...uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.groups[id] = true
	}
}

func (f *fakeGroupRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.groups[id] {
		return nil, nil
	}
	return &entity.Group{Base: entity.Base{ID: id}, Name: "group", IsActive: true}, nil
}

func (f *fakeGroupRepo) MissingIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var missing []uuid.UUID
	for _, id := range ids {
		if !f.groups[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Notify(event string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) has(event string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e == event {
			return true
		}
	}
	return false
}

// testEnv bundles the fakes with services built on top of them.
type testEnv struct {
	bookings    *fakeBookingRepo
	assignments *fakeAssignmentRepo
	attendance  *fakeAttendanceRepo
	groups      *fakeGroupRepo
	notifier    *fakeNotifier
	repo        *repository.Repository
	service     *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings:    newFakeBookingRepo(),
		assignments: newFakeAssignmentRepo(),
		attendance:  newFakeAttendanceRepo(),
		groups:      newFakeGroupRepo(),
		notifier:    &fakeNotifier{},
	}

	env.repo = &repository.Repository{
		Booking:      env.bookings,
		Assignment:   env.assignments,
		Attendance:   env.attendance,
		Course:       fakeCourseRepo{},
		ActivityType: fakeActivityTypeRepo{},
		Instructor:   fakeInstructorRepo{},
		Location:     fakeLocationRepo{},
		Group:        env.groups,
	}
	env.service = NewService(env.repo, env.notifier, zap.NewNop())

	return env
}

// addGroup registers a group with the given students and returns its id.
func (env *testEnv) addGroup(studentIDs ...uuid.UUID) uuid.UUID {
	groupID := uuid.New()
	env.groups.add(groupID)
	env.assignments.mu.Lock()
	env.assignments.members[groupID] = studentIDs
	env.assignments.mu.Unlock()
	return groupID
}

func mustClock(value string) time.Time {
	t, err := utils.ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func mustDate(value string) time.Time {
	t, err := utils.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}

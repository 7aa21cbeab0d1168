package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/auth"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

var nopLogger = zerolog.Nop()

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

// pageBounds returns the slice bounds of one page over n rows
func pageBounds(page, limit, n int) (start, end int) {
	page, limit = helpers.NormalizePage(page, limit)
	start = (page - 1) * limit
	end = start + limit
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return start, end
}

type targetKey struct {
	target models.TargetType
	id     int64
}

type targetState struct {
	active   bool
	likes    int
	checkins int
	rating   float64
	reviews  int
}

type fakeTargets struct {
	rows map[targetKey]*targetState
}

func newFakeTargets() *fakeTargets {
	return &fakeTargets{rows: make(map[targetKey]*targetState)}
}

func (f *fakeTargets) add(target models.TargetType, id int64) *targetState {
	st := &targetState{active: true}
	f.rows[targetKey{target, id}] = st
	return st
}

func (f *fakeTargets) EnsureActive(_ context.Context, target models.TargetType, id int64) error {
	st, ok := f.rows[targetKey{target, id}]
	if !ok || !st.active {
		return apperrors.NotFound("%s %d not found", target, id)
	}
	return nil
}

func (f *fakeTargets) IncrementCounter(_ context.Context, target models.TargetType, id int64, counter models.TargetCounter, delta int) (int, error) {
	st, ok := f.rows[targetKey{target, id}]
	if !ok {
		return 0, apperrors.NotFound("%s %d not found", target, id)
	}
	value := &st.likes
	if counter == models.CounterCheckins {
		value = &st.checkins
	}
	*value += delta
	if *value < 0 {
		*value = 0
	}
	return *value, nil
}

func (f *fakeTargets) UpdateRating(_ context.Context, target models.TargetType, id int64, summary models.RatingSummary) error {
	st, ok := f.rows[targetKey{target, id}]
	if !ok {
		return apperrors.NotFound("%s %d not found", target, id)
	}
	st.rating, st.reviews = summary.Average, summary.Count
	return nil
}

type feedbackKey struct {
	user   int64
	target targetKey
	kind   models.FeedbackType
}

type fakeFeedback struct {
	rows map[feedbackKey]*models.UserFeedback
}

func newFakeFeedback() *fakeFeedback {
	return &fakeFeedback{rows: make(map[feedbackKey]*models.UserFeedback)}
}

func (f *fakeFeedback) Insert(_ context.Context, fb *models.UserFeedback) (bool, error) {
	k := feedbackKey{fb.UserID, targetKey{fb.TargetType, fb.TargetID}, fb.FeedbackType}
	if _, ok := f.rows[k]; ok {
		return false, nil
	}
	f.rows[k] = fb
	return true, nil
}

func (f *fakeFeedback) Delete(_ context.Context, userID int64, target models.TargetType, targetID int64, kind models.FeedbackType) (bool, error) {
	k := feedbackKey{userID, targetKey{target, targetID}, kind}
	if _, ok := f.rows[k]; !ok {
		return false, nil
	}
	delete(f.rows, k)
	return true, nil
}

func (f *fakeFeedback) ListTargetIDs(_ context.Context, userID int64, target models.TargetType, kind models.FeedbackType) ([]int64, error) {
	ids := []int64{}
	for k := range f.rows {
		if k.user == userID && k.target.target == target && k.kind == kind {
			ids = append(ids, k.target.id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeReviews struct {
	nextID int64
	rows   map[int64]*models.Review
	votes  map[[2]int64]bool
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{rows: make(map[int64]*models.Review), votes: make(map[[2]int64]bool)}
}

func (f *fakeReviews) Create(_ context.Context, review *models.Review) error {
	f.nextID++
	review.ID = f.nextID
	review.CreatedAt = time.Now()
	cp := *review
	f.rows[review.ID] = &cp
	return nil
}

func (f *fakeReviews) GetByID(_ context.Context, id int64) (*models.Review, error) {
	r, ok := f.rows[id]
	if !ok || !r.IsActive {
		return nil, apperrors.NotFound("review %d not found", id)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) Update(_ context.Context, review *models.Review) error {
	cp := *review
	f.rows[review.ID] = &cp
	return nil
}

func (f *fakeReviews) Deactivate(_ context.Context, id int64) error {
	r, ok := f.rows[id]
	if !ok || !r.IsActive {
		return apperrors.NotFound("review %d not found", id)
	}
	r.IsActive = false
	return nil
}

func (f *fakeReviews) active(target models.TargetType, targetID int64) []*models.Review {
	var out []*models.Review
	for _, r := range f.rows {
		t, id := r.Target()
		if r.IsActive && t == target && id == targetID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeReviews) ListByTarget(_ context.Context, target models.TargetType, targetID int64, page, limit int) ([]*models.Review, int64, error) {
	all := f.active(target, targetID)
	start, end := pageBounds(page, limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (f *fakeReviews) Summarize(_ context.Context, target models.TargetType, targetID int64) (models.RatingSummary, error) {
	var sum int
	rows := f.active(target, targetID)
	for _, r := range rows {
		sum += r.Rating
	}
	if len(rows) == 0 {
		return models.RatingSummary{}, nil
	}
	return models.RatingSummary{Average: float64(sum) / float64(len(rows)), Count: len(rows)}, nil
}

func (f *fakeReviews) AddHelpfulVote(_ context.Context, reviewID, userID int64) (bool, error) {
	k := [2]int64{reviewID, userID}
	if f.votes[k] {
		return false, nil
	}
	f.votes[k] = true
	return true, nil
}

func (f *fakeReviews) IncrementHelpful(_ context.Context, reviewID int64) (int, error) {
	r := f.rows[reviewID]
	r.HelpfulCount++
	return r.HelpfulCount, nil
}

type stopKey struct {
	trip   int64
	kind   models.StopKind
	target int64
}

type fakeTrips struct {
	nextID       int64
	trips        map[int64]*models.Trip
	stops        map[stopKey]*models.TripStop
	destinations map[int64]*models.Destination
	events       map[int64]*models.Event
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{
		trips:        make(map[int64]*models.Trip),
		stops:        make(map[stopKey]*models.TripStop),
		destinations: make(map[int64]*models.Destination),
		events:       make(map[int64]*models.Event),
	}
}

func (f *fakeTrips) Create(_ context.Context, trip *models.Trip) error {
	f.nextID++
	trip.ID = f.nextID
	trip.CreatedAt = time.Now()
	cp := *trip
	f.trips[trip.ID] = &cp
	return nil
}

func (f *fakeTrips) GetByID(_ context.Context, id int64) (*models.Trip, error) {
	t, ok := f.trips[id]
	if !ok {
		return nil, apperrors.NotFound("trip %d not found", id)
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTrips) Update(_ context.Context, trip *models.Trip) error {
	cp := *trip
	cp.Stops = nil
	f.trips[trip.ID] = &cp
	return nil
}

func (f *fakeTrips) UpdateStatus(_ context.Context, id int64, status models.TripStatus) error {
	f.trips[id].Status = status
	return nil
}

func (f *fakeTrips) Delete(_ context.Context, id int64) error {
	delete(f.trips, id)
	for k := range f.stops {
		if k.trip == id {
			delete(f.stops, k)
		}
	}
	return nil
}

func (f *fakeTrips) ListByUser(_ context.Context, userID int64, status models.TripStatus, page, limit int) ([]*models.Trip, int64, error) {
	var all []*models.Trip
	for _, t := range f.trips {
		if t.UserID == userID && (status == "" || t.Status == status) {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	start, end := pageBounds(page, limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (f *fakeTrips) LockForUpdate(_ context.Context, tripID int64) error {
	if _, ok := f.trips[tripID]; !ok {
		return apperrors.NotFound("trip %d not found", tripID)
	}
	return nil
}

func (f *fakeTrips) ListStops(_ context.Context, tripID int64) ([]*models.TripStop, error) {
	stops := []*models.TripStop{}
	for k, s := range f.stops {
		if k.trip != tripID {
			continue
		}
		cp := *s
		switch s.Kind {
		case models.StopDestination:
			cp.Destination = f.destinations[s.TargetID]
		case models.StopEvent:
			cp.Event = f.events[s.TargetID]
		}
		stops = append(stops, &cp)
	}
	models.SortStops(stops)
	return stops, nil
}

func (f *fakeTrips) GetStop(_ context.Context, tripID int64, kind models.StopKind, targetID int64) (*models.TripStop, error) {
	s, ok := f.stops[stopKey{tripID, kind, targetID}]
	if !ok {
		return nil, apperrors.NotFound("%s %d is not a stop of trip %d", kind, targetID, tripID)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeTrips) MaxVisitOrder(_ context.Context, tripID int64, kind models.StopKind) (int, error) {
	max := 0
	for k, s := range f.stops {
		if k.trip == tripID && k.kind == kind && s.VisitOrder > max {
			max = s.VisitOrder
		}
	}
	return max, nil
}

func (f *fakeTrips) InsertStop(_ context.Context, stop *models.TripStop) error {
	k := stopKey{stop.TripID, stop.Kind, stop.TargetID}
	if _, ok := f.stops[k]; ok {
		return apperrors.DuplicateStop(string(stop.Kind), stop.TargetID)
	}
	cp := *stop
	f.stops[k] = &cp
	return nil
}

func (f *fakeTrips) DeleteStop(_ context.Context, tripID int64, kind models.StopKind, targetID int64) (bool, error) {
	k := stopKey{tripID, kind, targetID}
	if _, ok := f.stops[k]; !ok {
		return false, nil
	}
	delete(f.stops, k)
	return true, nil
}

func (f *fakeTrips) SetVisitOrder(_ context.Context, tripID int64, kind models.StopKind, targetID int64, order int) (bool, error) {
	s, ok := f.stops[stopKey{tripID, kind, targetID}]
	if !ok {
		return false, nil
	}
	s.VisitOrder = order
	return true, nil
}

func (f *fakeTrips) UpdateStop(_ context.Context, stop *models.TripStop) error {
	cp := *stop
	f.stops[stopKey{stop.TripID, stop.Kind, stop.TargetID}] = &cp
	return nil
}

type fakeUsers struct {
	nextID int64
	rows   map[int64]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: make(map[int64]*models.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range f.rows {
		if u.Email == user.Email {
			return apperrors.Conflict("email %s is already registered", user.Email)
		}
	}
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.rows[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("user %d not found", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeGroups struct {
	nextID   int64
	groups   map[int64]*models.Group
	members  map[[2]int64]*models.GroupMember
	shares   map[[2]int64]*models.TripShare
	comments map[int64]*models.GroupComment
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{
		groups:   make(map[int64]*models.Group),
		members:  make(map[[2]int64]*models.GroupMember),
		shares:   make(map[[2]int64]*models.TripShare),
		comments: make(map[int64]*models.GroupComment),
	}
}

func (f *fakeGroups) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeGroups) Create(_ context.Context, group *models.Group) error {
	group.ID = f.id()
	cp := *group
	f.groups[group.ID] = &cp
	return nil
}

func (f *fakeGroups) GetByID(_ context.Context, id int64) (*models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, apperrors.NotFound("group %d not found", id)
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroups) ListByMember(_ context.Context, userID int64) ([]*models.Group, error) {
	var out []*models.Group
	for k := range f.members {
		if k[1] == userID {
			out = append(out, f.groups[k[0]])
		}
	}
	return out, nil
}

func (f *fakeGroups) AddMember(_ context.Context, member *models.GroupMember) error {
	k := [2]int64{member.GroupID, member.UserID}
	if _, ok := f.members[k]; ok {
		return apperrors.Conflict("user %d is already a member", member.UserID)
	}
	cp := *member
	f.members[k] = &cp
	return nil
}

func (f *fakeGroups) GetMember(_ context.Context, groupID, userID int64) (*models.GroupMember, error) {
	m, ok := f.members[[2]int64{groupID, userID}]
	if !ok {
		return nil, apperrors.NotFound("user %d is not a member of group %d", userID, groupID)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeGroups) ListMembers(_ context.Context, groupID int64) ([]*models.GroupMember, error) {
	var out []*models.GroupMember
	for k, m := range f.members {
		if k[0] == groupID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeGroups) UpdateMemberRole(_ context.Context, groupID, userID int64, role models.GroupRole) error {
	f.members[[2]int64{groupID, userID}].Role = role
	return nil
}

func (f *fakeGroups) RemoveMember(_ context.Context, groupID, userID int64) error {
	k := [2]int64{groupID, userID}
	if _, ok := f.members[k]; !ok {
		return apperrors.NotFound("user %d is not a member of group %d", userID, groupID)
	}
	delete(f.members, k)
	return nil
}

func (f *fakeGroups) ShareTrip(_ context.Context, share *models.TripShare) error {
	k := [2]int64{share.GroupID, share.TripID}
	if _, ok := f.shares[k]; ok {
		return apperrors.Conflict("trip %d is already shared with this group", share.TripID)
	}
	share.ID = f.id()
	cp := *share
	f.shares[k] = &cp
	return nil
}

func (f *fakeGroups) GetShare(_ context.Context, groupID, tripID int64) (*models.TripShare, error) {
	s, ok := f.shares[[2]int64{groupID, tripID}]
	if !ok {
		return nil, apperrors.NotFound("trip %d is not shared with group %d", tripID, groupID)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeGroups) ListShares(_ context.Context, groupID int64) ([]*models.TripShare, error) {
	var out []*models.TripShare
	for k, s := range f.shares {
		if k[0] == groupID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeGroups) DeleteShare(_ context.Context, groupID, tripID int64) error {
	delete(f.shares, [2]int64{groupID, tripID})
	for id, c := range f.comments {
		if c.GroupID == groupID && c.TripID == tripID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeGroups) IsTripSharedWithUser(_ context.Context, tripID, userID int64) (bool, error) {
	for k := range f.shares {
		if k[1] != tripID {
			continue
		}
		if _, ok := f.members[[2]int64{k[0], userID}]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) CreateComment(_ context.Context, comment *models.GroupComment) error {
	comment.ID = f.id()
	cp := *comment
	f.comments[comment.ID] = &cp
	return nil
}

func (f *fakeGroups) GetComment(_ context.Context, id int64) (*models.GroupComment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, apperrors.NotFound("comment %d not found", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeGroups) ListComments(_ context.Context, groupID, tripID int64) ([]*models.GroupComment, error) {
	var out []*models.GroupComment
	for _, c := range f.comments {
		if c.GroupID == groupID && c.TripID == tripID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGroups) DeleteComment(_ context.Context, id int64) error {
	delete(f.comments, id)
	for cid, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(f.comments, cid)
		}
	}
	return nil
}

type fakeNotifications struct {
	nextID int64
	rows   []*models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotifications) forUser(userID int64) []*models.Notification {
	var out []*models.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID int64, unreadOnly bool, page, limit int) ([]*models.Notification, int64, error) {
	var all []*models.Notification
	for _, n := range f.forUser(userID) {
		if !unreadOnly || !n.IsRead {
			all = append(all, n)
		}
	}
	start, end := pageBounds(page, limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID int64) error {
	for _, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperrors.NotFound("notification %d not found", id)
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	var changed int64
	for _, n := range f.forUser(userID) {
		if !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (f *fakeNotifications) CountUnread(_ context.Context, userID int64) (int64, error) {
	var unread int64
	for _, n := range f.forUser(userID) {
		if !n.IsRead {
			unread++
		}
	}
	return unread, nil
}

type fakeDestinations struct {
	rows []*models.Destination
}

// Search evaluates the query in memory the same way the SQL rendition filters and sorts
func (f *fakeDestinations) Search(_ context.Context, q *search.Query) ([]*models.Destination, int64, error) {
	records := make([]search.Record, len(f.rows))
	for i, d := range f.rows {
		records[i] = d.SearchRecord()
	}
	idx, total := q.Apply(records)
	out := make([]*models.Destination, 0, len(idx))
	for _, i := range idx {
		out = append(out, f.rows[i])
	}
	return out, total, nil
}

func (f *fakeDestinations) GetByID(_ context.Context, id int64) (*models.Destination, error) {
	for _, d := range f.rows {
		if d.ID == id && d.IsActive {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("destination %d not found", id)
}

func (f *fakeDestinations) ListFeatured(_ context.Context, limit int) ([]*models.Destination, error) {
	var out []*models.Destination
	for _, d := range f.rows {
		if d.IsFeatured && d.IsActive && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDestinations) Create(_ context.Context, d *models.Destination) error {
	d.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, d)
	return nil
}

func (f *fakeDestinations) Update(_ context.Context, d *models.Destination) error {
	for i, row := range f.rows {
		if row.ID == d.ID {
			f.rows[i] = d
			return nil
		}
	}
	return apperrors.NotFound("destination %d not found", d.ID)
}

func (f *fakeDestinations) SetActive(_ context.Context, id int64, active bool) error {
	for _, d := range f.rows {
		if d.ID == id {
			d.IsActive = active
			return nil
		}
	}
	return apperrors.NotFound("destination %d not found", id)
}

func newTestAuthz(groups *fakeGroups) *auth.AuthorizationService {
	return auth.NewAuthorizationService(groups)
}

func ptr[T any](v T) *T { return &v }

package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/repositories"
	"github.com/skill-eureka/backend/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository interfaces, mirroring the
// Mongo implementations' semantics (idempotent set ops, sentinel errors,
// duplicate rejection).

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, req *models.UpdateUserProfileRequest) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}
	return user, nil
}

func addToSet(set *[]primitive.ObjectID, id primitive.ObjectID) bool {
	for _, existing := range *set {
		if existing == id {
			return false
		}
	}
	*set = append(*set, id)
	return true
}

func pullFromSet(set *[]primitive.ObjectID, id primitive.ObjectID) bool {
	for i, existing := range *set {
		if existing == id {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return true
		}
	}
	return false
}

func (r *fakeUserRepo) mutate(id primitive.ObjectID, fn func(u *models.User) bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	return fn(user), nil
}

func (r *fakeUserRepo) AddLikedVideo(_ context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) bool { return addToSet(&u.LikedVideos, videoID) })
}

func (r *fakeUserRepo) RemoveLikedVideo(_ context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) bool { return pullFromSet(&u.LikedVideos, videoID) })
}

func (r *fakeUserRepo) AddSavedVideo(_ context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) bool { return addToSet(&u.SavedVideos, videoID) })
}

func (r *fakeUserRepo) RemoveSavedVideo(_ context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) bool { return pullFromSet(&u.SavedVideos, videoID) })
}

func (r *fakeUserRepo) AddWatchLaterVideo(_ context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) bool { return addToSet(&u.WatchLaterVideos, videoID) })
}

func (r *fakeUserRepo) RemoveWatchLaterVideo(_ context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) bool { return pullFromSet(&u.WatchLaterVideos, videoID) })
}

func (r *fakeUserRepo) AppendHistory(_ context.Context, userID, videoID primitive.ObjectID) error {
	_, err := r.mutate(userID, func(u *models.User) bool {
		u.History = append(u.History, models.HistoryEntry{VideoID: videoID, WatchedAt: time.Now()})
		return true
	})
	return err
}

type fakeCreatorRepo struct {
	mu       sync.Mutex
	creators map[primitive.ObjectID]*models.Creator
}

func newFakeCreatorRepo() *fakeCreatorRepo {
	return &fakeCreatorRepo{creators: make(map[primitive.ObjectID]*models.Creator)}
}

func (r *fakeCreatorRepo) CreateCreator(_ context.Context, creator *models.Creator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.creators {
		if c.Username == creator.Username || c.Email == creator.Email {
			return repositories.ErrDuplicate
		}
	}
	if creator.ID.IsZero() {
		creator.ID = primitive.NewObjectID()
	}
	r.creators[creator.ID] = creator
	return nil
}

func (r *fakeCreatorRepo) GetCreatorByID(_ context.Context, id primitive.ObjectID) (*models.Creator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	creator, ok := r.creators[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return creator, nil
}

func (r *fakeCreatorRepo) GetCreatorByEmail(_ context.Context, email string) (*models.Creator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.creators {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCreatorRepo) GetCreatorByUsername(_ context.Context, username string) (*models.Creator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.creators {
		if c.Username == username {
			return c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCreatorRepo) SearchVerified(_ context.Context, search string) ([]models.Creator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Creator
	needle := strings.ToLower(search)
	for _, c := range r.creators {
		if !c.IsVerified {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Bio), needle) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCreatorRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, req *models.UpdateCreatorProfileRequest) (*models.Creator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	creator, ok := r.creators[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if req.Name != "" {
		creator.Name = req.Name
	}
	if req.Bio != "" {
		creator.Bio = req.Bio
	}
	if req.ProfilePic != "" {
		creator.ProfilePic = req.ProfilePic
	}
	if req.YoutubeChannel != "" {
		creator.YoutubeChannel = req.YoutubeChannel
	}
	if req.InstagramHandle != "" {
		creator.InstagramHandle = req.InstagramHandle
	}
	if req.LinkedinProfile != "" {
		creator.LinkedinProfile = req.LinkedinProfile
	}
	return creator, nil
}

type fakeFollowRepo struct {
	users    *fakeUserRepo
	creators *fakeCreatorRepo
	notifs   *fakeNotificationRepo
}

func (r *fakeFollowRepo) Follow(ctx context.Context, userID, creatorID primitive.ObjectID) (*models.Notification, error) {
	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	creator, err := r.creators.GetCreatorByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if !addToSet(&user.FollowingCreators, creatorID) {
		return nil, repositories.ErrAlreadyFollowing
	}
	addToSet(&creator.Followers, userID)

	notif := models.NewNotification(creatorID, userID, models.NotificationTypeFollow, map[string]string{
		"followerName": user.Username,
	})
	if err := r.notifs.CreateNotification(ctx, notif); err != nil {
		return nil, err
	}
	return notif, nil
}

func (r *fakeFollowRepo) Unfollow(ctx context.Context, userID, creatorID primitive.ObjectID) error {
	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	creator, err := r.creators.GetCreatorByID(ctx, creatorID)
	if err != nil {
		return err
	}
	pullFromSet(&user.FollowingCreators, creatorID)
	pullFromSet(&creator.Followers, userID)
	return nil
}

func (r *fakeFollowRepo) IsFollowing(ctx context.Context, userID, creatorID primitive.ObjectID) (bool, error) {
	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range user.FollowingCreators {
		if id == creatorID {
			return true, nil
		}
	}
	return false, nil
}

type fakeVideoRepo struct {
	mu       sync.Mutex
	videos   map[primitive.ObjectID]*models.Video
	creators *fakeCreatorRepo
}

func newFakeVideoRepo(creators *fakeCreatorRepo) *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[primitive.ObjectID]*models.Video), creators: creators}
}

func (r *fakeVideoRepo) CreateVideo(ctx context.Context, video *models.Video) error {
	creator, err := r.creators.GetCreatorByID(ctx, video.CreatorID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	video.ID = primitive.NewObjectID()
	if video.UploadDate.IsZero() {
		video.UploadDate = time.Now()
	}
	r.videos[video.ID] = video
	addToSet(&creator.Videos, video.ID)
	return nil
}

func (r *fakeVideoRepo) GetVideoByID(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return video, nil
}

func (r *fakeVideoRepo) ListVideos(_ context.Context, category string, skip, limit int64) ([]models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Video
	for _, v := range r.videos {
		if category != "" && v.Category != category {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVideoRepo) ListByCreator(_ context.Context, creatorID primitive.ObjectID) ([]models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Video
	for _, v := range r.videos {
		if v.CreatorID == creatorID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out, nil
}

func (r *fakeVideoRepo) DeleteVideo(ctx context.Context, id, creatorID primitive.ObjectID) (*models.Video, error) {
	r.mu.Lock()
	video, ok := r.videos[id]
	if !ok {
		r.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	if video.CreatorID != creatorID {
		r.mu.Unlock()
		return nil, repositories.ErrNotOwner
	}
	delete(r.videos, id)
	r.mu.Unlock()

	if creator, err := r.creators.GetCreatorByID(ctx, creatorID); err == nil {
		pullFromSet(&creator.Videos, id)
	}
	return video, nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	return r.adjust(id, func(v *models.Video) { v.Views++ })
}

func (r *fakeVideoRepo) AdjustLikes(_ context.Context, id primitive.ObjectID, delta int) error {
	return r.adjust(id, func(v *models.Video) { v.Likes += delta })
}

func (r *fakeVideoRepo) AdjustSaves(_ context.Context, id primitive.ObjectID, delta int) error {
	return r.adjust(id, func(v *models.Video) { v.Saves += delta })
}

func (r *fakeVideoRepo) adjust(id primitive.ObjectID, fn func(v *models.Video)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(video)
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	for i := range notifications {
		n := notifications[i]
		if err := r.CreateNotification(ctx, &n); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetByRecipient(_ context.Context, recipientID primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.Recipient == recipientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if skip >= total {
		return nil, total, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(_ context.Context, recipientID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.Recipient == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, notificationID, recipientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID && n.Recipient == recipientID {
			n.Read = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.Recipient == recipientID {
			n.Read = true
		}
	}
	return nil
}

type fakeApplicationRepo struct {
	mu       sync.Mutex
	apps     map[primitive.ObjectID]*models.CreatorApplication
	codes    map[string]*models.CreatorCode
	creators *fakeCreatorRepo
}

func newFakeApplicationRepo(creators *fakeCreatorRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:     make(map[primitive.ObjectID]*models.CreatorApplication),
		codes:    make(map[string]*models.CreatorCode),
		creators: creators,
	}
}

func (r *fakeApplicationRepo) CreateApplication(_ context.Context, app *models.CreatorApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.Email == app.Email {
			return repositories.ErrDuplicate
		}
	}
	app.ID = primitive.NewObjectID()
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) GetApplicationByID(_ context.Context, id primitive.ObjectID) (*models.CreatorApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return app, nil
}

func (r *fakeApplicationRepo) ListApplications(_ context.Context, status string) ([]models.CreatorApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CreatorApplication
	for _, app := range r.apps {
		if status != "" && app.Status != status {
			continue
		}
		out = append(out, *app)
	}
	return out, nil
}

func (r *fakeApplicationRepo) ApproveApplication(_ context.Context, id primitive.ObjectID, code string) (*models.CreatorApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	app.Status = models.ApplicationStatusApproved
	r.codes[app.Email] = &models.CreatorCode{Email: app.Email, Code: code}
	return app, nil
}

func (r *fakeApplicationRepo) RejectApplication(_ context.Context, id primitive.ObjectID) (*models.CreatorApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	app.Status = models.ApplicationStatusRejected
	return app, nil
}

func (r *fakeApplicationRepo) VerifyCode(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.codes[email]
	if !ok || record.Code != code {
		return repositories.ErrCodeInvalid
	}
	if record.Used {
		return repositories.ErrCodeUsed
	}
	return nil
}

func (r *fakeApplicationRepo) ConsumeCodeAndCreate(ctx context.Context, creator *models.Creator) error {
	r.mu.Lock()
	record, ok := r.codes[creator.Email]
	if !ok || record.Code != creator.ConfirmationCode {
		r.mu.Unlock()
		return repositories.ErrCodeInvalid
	}
	if record.Used {
		r.mu.Unlock()
		return repositories.ErrCodeUsed
	}
	record.Used = true
	r.mu.Unlock()

	if err := r.creators.CreateCreator(ctx, creator); err != nil {
		// roll the code back so a failed registration leaves it live
		r.mu.Lock()
		record.Used = false
		r.mu.Unlock()
		return err
	}
	return nil
}

type fakeCategoryRepo struct {
	categories []models.Category
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) SeedCategories(_ context.Context, names []string) error {
	for _, name := range names {
		r.categories = append(r.categories, models.Category{ID: primitive.NewObjectID(), Name: name})
	}
	return nil
}

// --- Echo test plumbing ---

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asPrincipal(c echo.Context, id primitive.ObjectID, role string) {
	c.Set("principal", &models.JwtCustomClaims{PrincipalID: id.Hex(), Role: role})
}

// httpStatus unwraps an echo.HTTPError into its status code.
func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}

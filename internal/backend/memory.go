package backend

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// accessTokenTTL is how long tokens minted by Memory stay valid.
const accessTokenTTL = time.Hour

// SeedQuestion is a question together with its answer key. Only Memory
// ever sees the key; callers get the public Question.
type SeedQuestion struct {
	Question
	CorrectIndex int
	Explanation  string
}

type memUser struct {
	id       string
	email    string
	password string
}

type xpGain struct {
	at time.Time
	xp int
}

// memData is shared between a Memory and every view derived from it.
type memData struct {
	mu sync.Mutex

	secret []byte
	now    func() time.Time

	lessons      []Lesson
	questions    map[string][]SeedQuestion // by lesson id
	answerKey    map[string]SeedQuestion   // by question id
	achievements []Achievement

	users     map[string]*memUser // by email
	profiles  map[string]*ProfileRow
	completed map[string]map[string]int // user -> lesson -> best score
	earned    map[string][]EarnedAchievement
	xpLog     map[string][]xpGain
	refresh   map[string]string // refresh token -> user id
	revoked   map[string]bool   // access token ids
}

// Memory is an in-process Service backed by seeded data. It emulates the
// hosted procedures closely enough for offline play and tests.
type Memory struct {
	data *memData

	mu     sync.RWMutex
	tokens oauth2.TokenSource
}

var _ Service = (*Memory)(nil)

// MemoryOption customizes a Memory.
type MemoryOption func(*memData)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(d *memData) { d.now = now }
}

// WithSeed replaces the default seed content.
func WithSeed(lessons []Lesson, questions []SeedQuestion, achievements []Achievement) MemoryOption {
	return func(d *memData) {
		d.lessons = nil
		d.questions = map[string][]SeedQuestion{}
		d.answerKey = map[string]SeedQuestion{}
		d.profiles = map[string]*ProfileRow{}
		d.seed(lessons, questions, achievements)
	}
}

// WithProfiles adds public profile rows, e.g. other learners to rank
// against.
func WithProfiles(rows ...ProfileRow) MemoryOption {
	return func(d *memData) {
		for _, r := range rows {
			row := r
			d.profiles[row.UserID] = &row
		}
	}
}

// NewMemory creates a Memory populated with DefaultLessons,
// DefaultQuestions, DefaultAchievements and DefaultLeaders unless
// WithSeed is given.
func NewMemory(opts ...MemoryOption) *Memory {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(fmt.Sprintf("read random secret: %v", err))
	}
	d := &memData{
		secret:    secret,
		now:       time.Now,
		questions: map[string][]SeedQuestion{},
		answerKey: map[string]SeedQuestion{},
		users:     map[string]*memUser{},
		profiles:  map[string]*ProfileRow{},
		completed: map[string]map[string]int{},
		earned:    map[string][]EarnedAchievement{},
		xpLog:     map[string][]xpGain{},
		refresh:   map[string]string{},
		revoked:   map[string]bool{},
	}
	d.seed(DefaultLessons(), DefaultQuestions(), DefaultAchievements())
	WithProfiles(DefaultLeaders()...)(d)
	for _, opt := range opts {
		opt(d)
	}
	return &Memory{data: d}
}

func (d *memData) seed(lessons []Lesson, questions []SeedQuestion, achievements []Achievement) {
	d.lessons = append(d.lessons, lessons...)
	sort.SliceStable(d.lessons, func(i, j int) bool {
		return d.lessons[i].OrderIndex < d.lessons[j].OrderIndex
	})
	for _, q := range questions {
		d.questions[q.LessonID] = append(d.questions[q.LessonID], q)
		d.answerKey[q.ID] = q
	}
	for id := range d.questions {
		qs := d.questions[id]
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].OrderIndex < qs[j].OrderIndex })
	}
	d.achievements = append([]Achievement(nil), achievements...)
}

// WithTokenSource returns a view of the same data that authenticates
// calls with ts. The receiver is unchanged.
func (m *Memory) WithTokenSource(ts oauth2.TokenSource) *Memory {
	return &Memory{data: m.data, tokens: ts}
}

func (m *Memory) SetTokenSource(ts oauth2.TokenSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = ts
}

// caller resolves the signed-in user from the token source.
func (m *Memory) caller() (string, error) {
	m.mu.RLock()
	ts := m.tokens
	m.mu.RUnlock()

	tok := bearer(ts)
	if tok == nil {
		return "", ErrUnauthorized
	}
	return m.data.verify(tok.AccessToken)
}

type memClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (d *memData) verify(raw string) (string, error) {
	claims := &memClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return d.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(d.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	d.mu.Lock()
	revoked := d.revoked[claims.ID]
	d.mu.Unlock()
	if revoked {
		return "", fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}
	return claims.Subject, nil
}

// mint issues a session for u. Caller holds d.mu.
func (d *memData) mint(u *memUser) (*AuthSession, error) {
	now := d.now()
	exp := now.Add(accessTokenTTL)
	claims := memClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			Issuer:    "lugha-memory",
		},
		Email: u.email,
		Role:  "authenticated",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	refresh := hex.EncodeToString(buf)
	d.refresh[refresh] = u.id
	return &AuthSession{
		AccessToken:  signed,
		TokenType:    "bearer",
		ExpiresIn:    int(accessTokenTTL / time.Second),
		ExpiresAt:    exp.Unix(),
		RefreshToken: refresh,
		User:         AuthUser{ID: u.id, Email: u.email},
	}, nil
}

func (m *Memory) SignUp(_ context.Context, email, password, name string) (*AuthSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, &APIError{Status: 422, Code: "validation_failed", Message: "email and a password of at least 6 characters are required"}
	}
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[email]; ok {
		return nil, &APIError{Status: 422, Code: "user_already_exists", Message: "User already registered"}
	}
	u := &memUser{id: uuid.NewString(), email: email, password: password}
	d.users[email] = u
	// The hosted project creates the profile row from a signup trigger.
	d.profiles[u.id] = &ProfileRow{ID: uuid.NewString(), UserID: u.id, Name: name, Email: email}
	return d.mint(u)
}

func (m *Memory) SignIn(_ context.Context, email, password string) (*AuthSession, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || u.password != password {
		return nil, &APIError{Status: 400, Code: "invalid_grant", Message: "Invalid login credentials"}
	}
	return d.mint(u)
}

func (m *Memory) Refresh(_ context.Context, refreshToken string) (*AuthSession, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	uid, ok := d.refresh[refreshToken]
	if !ok {
		return nil, &APIError{Status: 400, Code: "invalid_grant", Message: "Invalid Refresh Token"}
	}
	delete(d.refresh, refreshToken)
	for _, u := range d.users {
		if u.id == uid {
			return d.mint(u)
		}
	}
	return nil, &APIError{Status: 400, Code: "invalid_grant", Message: "User not found"}
}

func (m *Memory) SignOut(_ context.Context, accessToken string) error {
	d := m.data
	claims := &memClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return d.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(d.now))
	if err != nil {
		return &APIError{Status: 401, Message: "invalid token"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[claims.ID] = true
	for tok, uid := range d.refresh {
		if uid == claims.Subject {
			delete(d.refresh, tok)
		}
	}
	return nil
}

func (m *Memory) Lessons(_ context.Context, code language.Code) ([]Lesson, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Lesson
	for _, l := range d.lessons {
		if !l.IsActive {
			continue
		}
		if code != "" && l.LanguageCode != code {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *Memory) Questions(_ context.Context, lessonID string) ([]Question, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	seeded := d.questions[lessonID]
	out := make([]Question, 0, len(seeded))
	for _, q := range seeded {
		pub := q.Question
		pub.Options = append([]string(nil), q.Options...)
		out = append(out, pub)
	}
	return out, nil
}

// xpPerCorrect is what the emulated check_answer awards per correct answer.
const xpPerCorrect = 5

func (m *Memory) CheckAnswer(_ context.Context, questionID string, selected int) (AnswerResult, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	q, ok := d.answerKey[questionID]
	if !ok {
		return AnswerResult{}, &APIError{Status: 404, Code: "P0002", Message: "question not found"}
	}
	if selected < 0 || selected >= len(q.Options) {
		return AnswerResult{}, &APIError{Status: 400, Code: "22023", Message: "selected answer out of range"}
	}
	res := AnswerResult{
		IsCorrect:          selected == q.CorrectIndex,
		CorrectOptionIndex: q.CorrectIndex,
		Explanation:        q.Explanation,
	}
	if res.IsCorrect {
		res.XPEarned = xpPerCorrect
	}
	return res, nil
}

func (m *Memory) CompleteLesson(_ context.Context, lessonID string, score int, code language.Code) (CompletionResult, error) {
	uid, err := m.caller()
	if err != nil {
		return CompletionResult{}, err
	}
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()

	var lesson *Lesson
	for i := range d.lessons {
		if d.lessons[i].ID == lessonID {
			lesson = &d.lessons[i]
			break
		}
	}
	if lesson == nil {
		return CompletionResult{}, &APIError{Status: 404, Code: "P0002", Message: "lesson not found"}
	}
	if code != "" && lesson.LanguageCode != code {
		return CompletionResult{}, &APIError{Status: 400, Code: "22023", Message: "language does not match lesson"}
	}
	if score < 0 || score > len(d.questions[lessonID]) {
		return CompletionResult{}, &APIError{Status: 400, Code: "22023", Message: "score out of range"}
	}

	now := d.now()
	total := lesson.XPReward + score*xpPerCorrect

	if d.completed[uid] == nil {
		d.completed[uid] = map[string]int{}
	}
	if prev, ok := d.completed[uid][lessonID]; !ok || score > prev {
		d.completed[uid][lessonID] = score
	}
	d.xpLog[uid] = append(d.xpLog[uid], xpGain{at: now, xp: total})

	p := d.profiles[uid]
	if p == nil {
		p = &ProfileRow{ID: uuid.NewString(), UserID: uid}
		d.profiles[uid] = p
	}
	p.TotalXP += total
	updateStreak(p, now)

	d.award(uid, lessonID, score, now)

	return CompletionResult{Success: true, LessonXP: lesson.XPReward, TotalXPEarned: total}, nil
}

// updateStreak extends the streak when the last activity was yesterday,
// keeps it for repeat activity today and restarts it otherwise.
func updateStreak(p *ProfileRow, now time.Time) {
	today := now.Format(time.DateOnly)
	yesterday := now.AddDate(0, 0, -1).Format(time.DateOnly)
	switch p.LastActivityDate {
	case today:
		if p.CurrentStreak == 0 {
			p.CurrentStreak = 1
		}
	case yesterday:
		p.CurrentStreak++
	default:
		p.CurrentStreak = 1
	}
	p.LastActivityDate = today
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
}

// award grants catalog achievements whose condition now holds. Caller
// holds d.mu.
func (d *memData) award(uid, lessonID string, score int, now time.Time) {
	have := map[string]bool{}
	for _, e := range d.earned[uid] {
		have[e.AchievementID] = true
	}
	p := d.profiles[uid]
	done := len(d.completed[uid])
	langs := map[language.Code]bool{}
	for id := range d.completed[uid] {
		for _, l := range d.lessons {
			if l.ID == id {
				langs[l.LanguageCode] = true
			}
		}
	}
	perfect := score > 0 && score == len(d.questions[lessonID])

	conds := map[string]bool{
		AchievementFirstLesson: done >= 1,
		AchievementFiveLessons: done >= 5,
		AchievementStreak3:     p.CurrentStreak >= 3,
		AchievementStreak7:     p.CurrentStreak >= 7,
		AchievementXP500:       p.TotalXP >= 500,
		AchievementPerfect:     perfect,
		AchievementPolyglot:    len(langs) >= 2,
	}
	for _, a := range d.achievements {
		if have[a.ID] || !conds[a.ID] {
			continue
		}
		d.earned[uid] = append(d.earned[uid], EarnedAchievement{AchievementID: a.ID, EarnedAt: now})
	}
}

func (m *Memory) Leaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	rows := make([]LeaderboardEntry, 0, len(d.profiles))
	for _, p := range d.profiles {
		if p.Name == "" {
			continue
		}
		rows = append(rows, LeaderboardEntry{
			UserID:        p.UserID,
			Name:          p.Name,
			TotalXP:       p.TotalXP,
			CurrentStreak: p.CurrentStreak,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalXP != rows[j].TotalXP {
			return rows[i].TotalXP > rows[j].TotalXP
		}
		return rows[i].Name < rows[j].Name
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (m *Memory) Profile(_ context.Context, userID string) (*ProfileRow, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("fetch profile %s: %w", userID, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// UpsertProfile merges the editable fields of row into the caller's
// profile. XP and streak columns are server-owned and ignored.
func (m *Memory) UpsertProfile(_ context.Context, row ProfileRow) error {
	uid, err := m.caller()
	if err != nil {
		return err
	}
	if row.UserID != "" && row.UserID != uid {
		return &APIError{Status: 403, Code: "42501", Message: "cannot write another user's profile"}
	}
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.profiles[uid]
	if p == nil {
		p = &ProfileRow{ID: uuid.NewString(), UserID: uid}
		d.profiles[uid] = p
	}
	if row.Name != "" {
		p.Name = row.Name
	}
	if row.Age > 0 {
		p.Age = row.Age
	}
	if row.Email != "" {
		p.Email = row.Email
	}
	if row.SelectedLanguage != "" {
		p.SelectedLanguage = row.SelectedLanguage
	}
	if row.NativeLanguage != "" {
		p.NativeLanguage = row.NativeLanguage
	}
	return nil
}

func (m *Memory) Achievements(_ context.Context) ([]Achievement, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Achievement(nil), d.achievements...), nil
}

func (m *Memory) EarnedAchievements(_ context.Context, userID string) ([]EarnedAchievement, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]EarnedAchievement(nil), d.earned[userID]...), nil
}

func (m *Memory) CompletedLessons(_ context.Context, userID string) (int, error) {
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.completed[userID]), nil
}

func (m *Memory) XPHistory(_ context.Context, days int) ([]DayXP, error) {
	uid, err := m.caller()
	if err != nil {
		return nil, err
	}
	if days < 1 {
		days = 1
	}
	d := m.data
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	byDay := map[string]int{}
	for _, g := range d.xpLog[uid] {
		byDay[g.at.Format(time.DateOnly)] += g.xp
	}
	out := make([]DayXP, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, i-days+1).Format(time.DateOnly)
		out[i] = DayXP{Day: day, XP: byDay[day]}
	}
	return out, nil
}

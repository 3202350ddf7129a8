package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
	"llm-chat/internal/storage"
	mytesting "llm-chat/internal/testing"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeStore keeps entities in memory and follows storage.Store semantics used by handlers
type fakeStore struct {
	mu       sync.Mutex
	clock    *mytesting.Clock
	nextID   int64
	users    map[int64]*storage.User
	chats    map[int64]*storage.Chat
	members  map[int64][]int64
	messages []*storage.ChatMessage
	failWith error
	closed   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:   mytesting.NewClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
		users:   make(map[int64]*storage.User),
		chats:   make(map[int64]*storage.Chat),
		members: make(map[int64][]int64),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateUser(_ context.Context, username string) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			return nil, &storage.StorageError{Op: "create user", Err: errors.New("duplicate key"), Reason: storage.ErrUserExists}
		}
	}

	u := &storage.User{Username: username}
	u.BeforeInsert(f.clock.Now())
	u.ID = f.id()
	f.users[u.ID] = u

	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) CreateChat(_ context.Context, title string, userIDs ...int64) (*storage.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range userIDs {
		if _, ok := f.users[id]; !ok {
			return nil, &storage.StorageError{Op: "create chat", Err: errors.New("fk"), Reason: storage.ErrUserNotFound}
		}
	}

	c := &storage.Chat{Title: title}
	c.BeforeInsert(f.clock.Now())
	c.ID = f.id()
	f.chats[c.ID] = c
	f.members[c.ID] = append([]int64{}, userIDs...)

	copied := *c
	return &copied, nil
}

func (f *fakeStore) isMember(chatID, userID int64) bool {
	for _, id := range f.members[chatID] {
		if id == userID {
			return true
		}
	}
	return false
}

func (f *fakeStore) DefaultChat(_ context.Context, u *storage.User) (*storage.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found *storage.Chat
	for id, c := range f.chats {
		if !f.isMember(id, u.ID) {
			continue
		}
		if found == nil || c.CreatedAt.Before(found.CreatedAt) {
			found = c
		}
	}
	if found == nil {
		return nil, storage.ErrChatNotFound
	}
	copied := *found
	return &copied, nil
}

func (f *fakeStore) ChatByUUID(_ context.Context, u *storage.User, id uuid.UUID) (*storage.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for chatID, c := range f.chats {
		if c.UUID == id && f.isMember(chatID, u.ID) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, storage.ErrChatNotFound
}

func (f *fakeStore) GetChatByUUID(_ context.Context, id uuid.UUID) (*storage.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.chats {
		if c.UUID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, storage.ErrChatNotFound
}

func (f *fakeStore) ChatJSON(_ context.Context, c *storage.Chat) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var messages []*storage.ChatMessage
	for _, m := range f.messages {
		if m.ChatID == c.ID {
			messages = append(messages, m)
		}
	}

	doc, err := storage.NewChatDocument(c, messages)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (f *fakeStore) CreateChatMessage(_ context.Context, c *storage.Chat, content string, authorUserID *int64, state *storage.State) (*storage.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := &storage.ChatMessage{
		Content: &content,
		Role:    storage.RoleAssistant,
		State:   storage.StateReady,
		ChatID:  c.ID,
	}
	if authorUserID != nil {
		if _, ok := f.users[*authorUserID]; !ok {
			return nil, &storage.StorageError{Op: "create chat message", Err: errors.New("fk"), Reason: storage.ErrUserNotFound}
		}
		id := *authorUserID
		m.Role = storage.RoleUser
		m.UserID = &id
	}
	if state != nil {
		m.State = *state
	}
	m.BeforeInsert(f.clock.Now())
	m.ID = f.id()
	f.messages = append(f.messages, m)

	copied := *m
	return &copied, nil
}

func (f *fakeStore) GetMessageByUUID(_ context.Context, id uuid.UUID) (*storage.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.messages {
		if m.UUID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, storage.ErrMessageNotFound
}

func (f *fakeStore) TransitionMessage(_ context.Context, m *storage.ChatMessage, to storage.State, content *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, stored := range f.messages {
		if stored.ID != m.ID {
			continue
		}
		if stored.State != m.State || !stored.State.CanTransition(to) {
			return &storage.TransitionError{From: stored.State, To: to}
		}
		stored.State = to
		if content != nil {
			c := *content
			stored.Content = &c
		}
		stored.BeforeUpdate(f.clock.Now())
		*m = *stored
		return nil
	}
	return storage.ErrMessageNotFound
}

func (f *fakeStore) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func bootstrapServer(t *testing.T, opts ...Option) (http.Handler, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	srv, err := NewServer(zap.NewNop().Sugar(), store, opts...)
	require.NoError(t, err)

	return srv.Handler(), store
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("POST", path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func parse(t *testing.T, rr *httptest.ResponseRecorder) *fastjson.Value {
	t.Helper()

	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	v, err := fastjson.ParseBytes(rr.Body.Bytes())
	require.NoError(t, err)

	return v
}

func statusOkHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestEnforcePOSTJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		code        int
		message     string
	}{
		{"valid", "POST", "application/json", `{"username":"a"}`, http.StatusOK, ""},
		{"charset", "POST", "application/json; charset=utf-8", `{}`, http.StatusOK, ""},
		{"blank content type", "POST", "", `{}`, http.StatusOK, ""},
		{"not post", "GET", "application/json", `{}`, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed) + "\n"},
		{"malformed content type", "POST", "1:2\n+/-", `{}`, http.StatusBadRequest, "Malformed Content-Type header\n"},
		{"unsupported content type", "POST", "text/plain", `{}`, http.StatusUnsupportedMediaType, "Content-Type header must be application/json\n"},
		{"no body", "POST", "application/json", ``, http.StatusBadRequest, "No body provided\n"},
		{"malformed json", "POST", "application/json", `{"username":`, http.StatusBadRequest, "Malformed JSON\n"},
		{"too large", "POST", "application/json", `"` + strings.Repeat("a", maxBodyBytes) + `"`, http.StatusBadRequest, "Can not read request body\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := http.NewRequest(tt.method, "/", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", tt.contentType)

			rr := httptest.NewRecorder()
			enforcePOSTJSON(http.HandlerFunc(statusOkHandler)).ServeHTTP(rr, req)

			require.Equal(t, tt.code, rr.Code)
			if tt.message != "" {
				require.Equal(t, tt.message, rr.Body.String())
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	h, store := bootstrapServer(t)

	rr := post(t, h, "/users/add", `{"username":"`+mytesting.RandUsername()+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	v := parse(t, rr)
	id := v.GetInt64("id")
	require.Contains(t, store.users, id)
	require.Equal(t, store.users[id].UUID.String(), string(v.GetStringBytes("uuid")))
}

func TestCreateUserExists(t *testing.T) {
	t.Parallel()

	h, _ := bootstrapServer(t)
	body := `{"username":"` + mytesting.RandUsername() + `"}`

	require.Equal(t, http.StatusCreated, post(t, h, "/users/add", body).Code)

	rr := post(t, h, "/users/add", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, storage.ErrUserExists.Error()+"\n", rr.Body.String())
}

func TestCreateUserBadRequest(t *testing.T) {
	t.Parallel()

	h, _ := bootstrapServer(t)

	tests := map[string]string{
		`{}`:                 "Missing Field \"username\"\n",
		`{"username":1}`:     "Field \"username\" must be a string\n",
		`{"username":""}`:    "Field \"username\" must have non-zero length\n",
		`["username","bob"]`: "Missing Field \"username\"\n",
	}
	for body, message := range tests {
		rr := post(t, h, "/users/add", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
		require.Equal(t, message, rr.Body.String(), body)
	}
}

func TestCreateChat(t *testing.T) {
	t.Parallel()

	h, store := bootstrapServer(t)

	first := parse(t, post(t, h, "/users/add", `{"username":"a"}`)).GetInt64("id")
	second := parse(t, post(t, h, "/users/add", `{"username":"b"}`)).GetInt64("id")

	body := `{"title":"test_chat","users":[` + strconv.FormatInt(first, 10) + `,` + strconv.FormatInt(second, 10) + `]}`
	rr := post(t, h, "/chats/add", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	id := parse(t, rr).GetInt64("id")
	require.Equal(t, "test_chat", store.chats[id].Title)
	require.Equal(t, []int64{first, second}, store.members[id])
}

func TestCreateChatBadRequest(t *testing.T) {
	t.Parallel()

	h, _ := bootstrapServer(t)

	tests := map[string]string{
		`{"users":[1]}`:                 "Missing Field \"title\"\n",
		`{"title":"","users":[1]}`:      "Field \"title\" must have non-zero length\n",
		`{"title":"t"}`:                 "Missing Field \"users\"\n",
		`{"title":"t","users":"1,2"}`:   "Field \"users\" must be an array\n",
		`{"title":"t","users":[1,"2"]}`: "Each item in \"users\" array field must be a 64-bit integer value\n",
		`{"title":"t","users":[1,-2]}`:  "Each integer in \"users\" array must be a valid user id greater than zero\n",
	}
	for body, message := range tests {
		rr := post(t, h, "/chats/add", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
		require.Equal(t, message, rr.Body.String(), body)
	}
}

func TestCreateChatUnknownUser(t *testing.T) {
	t.Parallel()

	h, _ := bootstrapServer(t)

	rr := post(t, h, "/chats/add", `{"title":"t","users":[42]}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "The requested URL was not found.\n", rr.Body.String())
}

func TestChat(t *testing.T) {
	t.Parallel()

	h, store := bootstrapServer(t)
	ctx := context.Background()

	owner, err := store.CreateUser(ctx, "owner")
	require.NoError(t, err)
	stranger, err := store.CreateUser(ctx, "stranger")
	require.NoError(t, err)

	first, err := store.CreateChat(ctx, "first", owner.ID)
	require.NoError(t, err)
	second, err := store.CreateChat(ctx, "second", owner.ID)
	require.NoError(t, err)
	_, err = store.CreateChatMessage(ctx, second, "hi", &owner.ID, nil)
	require.NoError(t, err)

	userBody := `{"user":` + strconv.FormatInt(owner.ID, 10)

	rr := post(t, h, "/chats/get", userBody+`}`)
	require.Equal(t, http.StatusOK, rr.Code)
	v := parse(t, rr)
	require.Equal(t, "first", string(v.GetStringBytes("title")))
	require.Equal(t, first.UUID.String(), string(v.GetStringBytes("uuid")))
	require.Equal(t, fastjson.TypeArray, v.Get("chat_messages").Type())
	require.Empty(t, v.GetArray("chat_messages"))

	rr = post(t, h, "/chats/get", userBody+`,"chat":"`+second.UUID.String()+`"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	v = parse(t, rr)
	messages := v.GetArray("chat_messages")
	require.Len(t, messages, 1)
	require.Equal(t, "User", string(messages[0].GetStringBytes("role")))
	require.Equal(t, int(owner.ID), messages[0].GetInt("user_id"))

	rr = post(t, h, "/chats/get", `{"user":`+strconv.FormatInt(stranger.ID, 10)+`,"chat":"`+second.UUID.String()+`"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = post(t, h, "/chats/get", `{"user":`+strconv.FormatInt(stranger.ID, 10)+`}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = post(t, h, "/chats/get", `{"user":999}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = post(t, h, "/chats/get", userBody+`,"chat":"not-a-uuid"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Field \"chat\" must be a valid UUID\n", rr.Body.String())

	rr = post(t, h, "/chats/get", `{"user":0}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Field \"user\" must be a valid id greater than zero\n", rr.Body.String())
}

func TestCreateMessage(t *testing.T) {
	t.Parallel()

	h, store := bootstrapServer(t)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, "author")
	require.NoError(t, err)
	c, err := store.CreateChat(ctx, "chat", u.ID)
	require.NoError(t, err)
	chat := `"chat":"` + c.UUID.String() + `"`

	rr := post(t, h, "/messages/add", `{`+chat+`,"author":`+strconv.FormatInt(u.ID, 10)+`,"text":"hi"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	v := parse(t, rr)
	require.Equal(t, "User", string(v.GetStringBytes("role")))
	require.Equal(t, "Ready", string(v.GetStringBytes("state")))
	require.Equal(t, "hi", string(v.GetStringBytes("content")))
	require.Equal(t, int(u.ID), v.GetInt("user_id"))
	require.Equal(t, fastjson.TypeNull, v.Get("title").Type())

	rr = post(t, h, "/messages/add", `{`+chat+`,"author":null,"text":"hello"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	v = parse(t, rr)
	require.Equal(t, "Assistant", string(v.GetStringBytes("role")))
	require.Equal(t, "Ready", string(v.GetStringBytes("state")))
	require.Equal(t, fastjson.TypeNull, v.Get("user_id").Type())

	rr = post(t, h, "/messages/add", `{`+chat+`,"text":"","state":"Pending"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	v = parse(t, rr)
	require.Equal(t, "Assistant", string(v.GetStringBytes("role")))
	require.Equal(t, "Pending", string(v.GetStringBytes("state")))

	require.Len(t, store.messages, 3)
}

func TestCreateMessageBadRequest(t *testing.T) {
	t.Parallel()

	h, store := bootstrapServer(t)
	c, err := store.CreateChat(context.Background(), "chat")
	require.NoError(t, err)
	chat := `"chat":"` + c.UUID.String() + `"`

	tests := map[string]string{
		`{"text":"hi"}`:                             "Missing Field \"chat\"\n",
		`{"chat":"x","text":"hi"}`:                  "Field \"chat\" must be a valid UUID\n",
		`{` + chat + `}`:                            "Missing Field \"text\"\n",
		`{` + chat + `,"text":1}`:                   "Field \"text\" must be a string\n",
		`{` + chat + `,"text":"hi","author":"1"}`:   "Field \"author\" must be a 64-bit integer value\n",
		`{` + chat + `,"text":"hi","state":"Done"}`: "Field \"state\" must be one of Pending, Loading, Ready, Error\n",
	}
	for body, message := range tests {
		rr := post(t, h, "/messages/add", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
		require.Equal(t, message, rr.Body.String(), body)
	}

	rr := post(t, h, "/messages/add", `{"chat":"`+uuid.NewString()+`","text":"hi"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = post(t, h, "/messages/add", `{`+chat+`,"text":"hi","author":77}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMessageState(t *testing.T) {
	t.Parallel()

	h, store := bootstrapServer(t)
	ctx := context.Background()

	c, err := store.CreateChat(ctx, "chat")
	require.NoError(t, err)
	pending := storage.StatePending
	m, err := store.CreateChatMessage(ctx, c, "", nil, &pending)
	require.NoError(t, err)
	message := `"message":"` + m.UUID.String() + `"`

	rr := post(t, h, "/messages/state", `{`+message+`,"state":"Ready","content":"early"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Pending -> Ready")

	rr = post(t, h, "/messages/state", `{`+message+`,"state":"Loading"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Loading", string(parse(t, rr).GetStringBytes("state")))

	rr = post(t, h, "/messages/state", `{`+message+`,"state":"Ready","content":"generated"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	v := parse(t, rr)
	require.Equal(t, "Ready", string(v.GetStringBytes("state")))
	require.Equal(t, "generated", string(v.GetStringBytes("content")))
	require.NotEqual(t, string(v.GetStringBytes("created_at")), string(v.GetStringBytes("updated_at")))

	rr = post(t, h, "/messages/state", `{`+message+`,"state":"Error"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = post(t, h, "/messages/state", `{"message":"`+uuid.NewString()+`","state":"Loading"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = post(t, h, "/messages/state", `{`+message+`}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Missing Field \"state\"\n", rr.Body.String())
}

func TestInternalError(t *testing.T) {
	t.Parallel()

	st := NewStatusText(map[int]string{http.StatusInternalServerError: "Try again"})
	h, store := bootstrapServer(t, WithStatusText(st))
	store.failWith = errors.New("connection reset")

	rr := post(t, h, "/users/add", `{"username":"bob"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Try again\n", rr.Body.String())

	rr = post(t, h, "/chats/get", `{"user":1}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "connection reset")
}

func TestSchema(t *testing.T) {
	t.Parallel()

	h, _ := bootstrapServer(t)

	req, err := http.NewRequest("GET", "/schema", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	v := parse(t, rr)
	require.Equal(t, "uuid", string(v.GetStringBytes("ChatMessage", "properties", "uuid", "format")))
	require.True(t, v.GetBool("ChatMessage", "properties", "user_id", "nullable"))
	require.Equal(t, "#/ChatMessage", string(v.GetStringBytes("ChatDocument", "properties", "chat_messages", "items", "$ref")))

	rr = post(t, h, "/schema", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	h, _ := bootstrapServer(t)

	first := post(t, h, "/users/add", `{}`)
	second := post(t, h, "/users/add", `{}`)

	require.Len(t, first.Header().Get(requestIDHeader), 20)
	require.NotEqual(t, first.Header().Get(requestIDHeader), second.Header().Get(requestIDHeader))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"field", missingField("user"), http.StatusBadRequest},
		{"not found", storage.ErrChatNotFound, http.StatusNotFound},
		{"wrapped not found", &storage.StorageError{Op: "op", Err: errors.New("fk"), Reason: storage.ErrUserNotFound}, http.StatusNotFound},
		{"transition", &storage.TransitionError{From: storage.StateReady, To: storage.StateLoading}, http.StatusBadRequest},
		{"author", &storage.StorageError{Op: "create chat message", Reason: storage.ErrAuthorMismatch}, http.StatusBadRequest},
		{"driver", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, statusCode(tt.err))
		})
	}
}

func TestStatusText(t *testing.T) {
	texts := map[int]string{http.StatusNotFound: "nope"}
	st := NewStatusText(texts)
	texts[http.StatusNotFound] = "changed"

	require.Equal(t, "nope", st.Text(http.StatusNotFound))
	require.Equal(t, http.StatusText(http.StatusTeapot), st.Text(http.StatusTeapot))

	d := DefaultStatusText()
	require.Equal(t, "The requested URL was not found.", d.Text(http.StatusNotFound))
	require.Equal(t, "We're sorry, there was an error. Please try again later.", d.Text(http.StatusInternalServerError))
}

func TestNewServerOptions(t *testing.T) {
	called := false
	srv, err := NewServer(zap.NewNop().Sugar(), newFakeStore(),
		WithEnvConfig(EnvConfig{Host: "0.0.0.0", Port: 9000}),
		ReadTimeout(5*time.Second),
		TimeoutHandler(time.Second, "timeout"),
		RegisterAfterShutdown(func() { called = true }),
	)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", srv.Addr())
	require.Equal(t, 5*time.Second, srv.httpServer.ReadTimeout)
	require.Len(t, srv.afterShutdown, 1)
	require.False(t, called)

	_, err = NewServer(zap.NewNop().Sugar(), nil)
	require.Error(t, err)
}

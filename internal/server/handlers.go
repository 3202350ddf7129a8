package server

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/google/uuid"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
	"io"
	"llm-chat/internal/schema"
	"llm-chat/internal/storage"
	"net/http"
	"strconv"
)

// chatStore is the part of storage.Store used by handlers
type chatStore interface {
	CreateUser(ctx context.Context, username string) (*storage.User, error)
	GetUser(ctx context.Context, id int64) (*storage.User, error)
	CreateChat(ctx context.Context, title string, userIDs ...int64) (*storage.Chat, error)
	DefaultChat(ctx context.Context, u *storage.User) (*storage.Chat, error)
	ChatByUUID(ctx context.Context, u *storage.User, id uuid.UUID) (*storage.Chat, error)
	GetChatByUUID(ctx context.Context, id uuid.UUID) (*storage.Chat, error)
	ChatJSON(ctx context.Context, c *storage.Chat) ([]byte, error)
	CreateChatMessage(ctx context.Context, c *storage.Chat, content string, authorUserID *int64, state *storage.State) (*storage.ChatMessage, error)
	GetMessageByUUID(ctx context.Context, id uuid.UUID) (*storage.ChatMessage, error)
	TransitionMessage(ctx context.Context, m *storage.ChatMessage, to storage.State, content *string) error
	Close()
}

type parsers struct {
	createUserPool    fastjson.ParserPool
	createChatPool    fastjson.ParserPool
	chatPool          fastjson.ParserPool
	createMessagePool fastjson.ParserPool
	messageStatePool  fastjson.ParserPool
}

type handler struct {
	logger  *zap.SugaredLogger
	store   chatStore
	status  StatusText
	parsers parsers
}

// fieldError is a client error found while reading request fields
type fieldError string

func (e fieldError) Error() string { return string(e) }

func missingField(name string) error {
	return fieldError(`Missing Field "` + name + `"`)
}

// stringField returns non-empty string field of v
func stringField(v *fastjson.Value, name string) (string, error) {
	if !v.Exists(name) {
		return "", missingField(name)
	}

	field := v.Get(name)
	if field.Type() != fastjson.TypeString {
		return "", fieldError(`Field "` + name + `" must be a string`)
	}

	s := string(field.GetStringBytes())
	if len(s) == 0 {
		return "", fieldError(`Field "` + name + `" must have non-zero length`)
	}

	return s, nil
}

// idField returns positive integer field of v
func idField(v *fastjson.Value, name string) (int64, error) {
	if !v.Exists(name) {
		return 0, missingField(name)
	}

	id, err := v.Get(name).Int64()
	if err != nil {
		return 0, fieldError(`Field "` + name + `" must be a 64-bit integer value`)
	}

	if id < 1 {
		return 0, fieldError(`Field "` + name + `" must be a valid id greater than zero`)
	}

	return id, nil
}

// uuidField returns uuid encoded as a string field of v
func uuidField(v *fastjson.Value, name string) (uuid.UUID, error) {
	s, err := stringField(v, name)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fieldError(`Field "` + name + `" must be a valid UUID`)
	}

	return id, nil
}

// stateField returns message state encoded by its label
func stateField(v *fastjson.Value, name string) (storage.State, error) {
	s, err := stringField(v, name)
	if err != nil {
		return "", err
	}

	state, err := storage.ParseState(s)
	if err != nil {
		return "", fieldError(`Field "` + name + `" must be one of Pending, Loading, Ready, Error`)
	}

	return state, nil
}

// statusCode maps storage errors to HTTP status codes
func statusCode(err error) int {
	var fe fieldError
	switch {
	case errors.As(err, &fe):
		return http.StatusBadRequest
	case storage.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidTransition),
		errors.Is(err, storage.ErrUserExists),
		errors.Is(err, storage.ErrUUIDTaken),
		errors.Is(err, storage.ErrAlreadyMember),
		errors.Is(err, storage.ErrAuthorMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err to the client. Bad requests carry the error text, other codes use the status table.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)

	switch code {
	case http.StatusBadRequest:
		msg := err.Error()
		var se *storage.StorageError
		if errors.As(err, &se) && se.Reason != nil {
			msg = se.Reason.Error()
		}
		http.Error(w, msg, code)
	case http.StatusInternalServerError:
		h.logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, h.status.Text(code), code)
	default:
		http.Error(w, h.status.Text(code), code)
	}
}

// write sends payload as JSON with provided status code
func (h *handler) write(w http.ResponseWriter, code int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(payload); err != nil {
		h.logger.Errorf("writing marshaled data to ResponseWriter: %v", err)
	}
}

func createdPayload(id int64, external uuid.UUID) []byte {
	return []byte(`{"id":` + strconv.FormatInt(id, 10) + `,"uuid":"` + external.String() + `"}`)
}

// createUser handles HTTP requests on "/users/add" endpoint
func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.createUserPool.Get()
	defer h.parsers.createUserPool.Put(parser)
	v, _ := parser.ParseBytes(body)

	username, err := stringField(v, "username")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.store.CreateUser(r.Context(), username)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, http.StatusCreated, createdPayload(u.ID, u.UUID))
}

// createChat handles HTTP requests on "/chats/add" endpoint
func (h *handler) createChat(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.createChatPool.Get()
	defer h.parsers.createChatPool.Put(parser)
	v, _ := parser.ParseBytes(body)

	title, err := stringField(v, "title")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// retrieving users array
	if !v.Exists("users") {
		h.fail(w, r, missingField("users"))
		return
	}

	userValues, err := v.Get("users").Array()
	if err != nil {
		h.fail(w, r, fieldError(`Field "users" must be an array`))
		return
	}

	userIDs := make([]int64, 0, len(userValues))
	for _, uv := range userValues {
		userID, err := uv.Int64()
		if err != nil {
			h.fail(w, r, fieldError(`Each item in "users" array field must be a 64-bit integer value`))
			return
		}

		if userID < 1 {
			h.fail(w, r, fieldError(`Each integer in "users" array must be a valid user id greater than zero`))
			return
		}
		userIDs = append(userIDs, userID)
	}

	c, err := h.store.CreateChat(r.Context(), title, userIDs...)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, http.StatusCreated, createdPayload(c.ID, c.UUID))
}

// chat handles HTTP requests on "/chats/get" endpoint.
// Without "chat" field the default chat of the user is returned.
func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.chatPool.Get()
	defer h.parsers.chatPool.Put(parser)
	v, _ := parser.ParseBytes(body)

	userID, err := idField(v, "user")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var chatID uuid.UUID
	if v.Exists("chat") {
		if chatID, err = uuidField(v, "chat"); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	u, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var c *storage.Chat
	if chatID == uuid.Nil {
		c, err = h.store.DefaultChat(r.Context(), u)
	} else {
		c, err = h.store.ChatByUUID(r.Context(), u, chatID)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	payload, err := h.store.ChatJSON(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, http.StatusOK, payload)
}

// createMessage handles HTTP requests on "/messages/add" endpoint
func (h *handler) createMessage(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.createMessagePool.Get()
	defer h.parsers.createMessagePool.Put(parser)
	v, _ := parser.ParseBytes(body)

	chatID, err := uuidField(v, "chat")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var author *int64
	if v.Exists("author") && v.Get("author").Type() != fastjson.TypeNull {
		id, err := idField(v, "author")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		author = &id
	}

	// "text" may be empty for a message slot that is generated later
	if !v.Exists("text") {
		h.fail(w, r, missingField("text"))
		return
	}
	textValue := v.Get("text")
	if textValue.Type() != fastjson.TypeString {
		h.fail(w, r, fieldError(`Field "text" must be a string`))
		return
	}
	text := string(textValue.GetStringBytes())

	var state *storage.State
	if v.Exists("state") {
		s, err := stateField(v, "state")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		state = &s
	}

	c, err := h.store.GetChatByUUID(r.Context(), chatID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := h.store.CreateChatMessage(r.Context(), c, text, author, state)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	payload, err := m.JSON()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, http.StatusCreated, payload)
}

// messageState handles HTTP requests on "/messages/state" endpoint
func (h *handler) messageState(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.messageStatePool.Get()
	defer h.parsers.messageStatePool.Put(parser)
	v, _ := parser.ParseBytes(body)

	messageID, err := uuidField(v, "message")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	to, err := stateField(v, "state")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var content *string
	if v.Exists("content") {
		cv := v.Get("content")
		if cv.Type() != fastjson.TypeString {
			h.fail(w, r, fieldError(`Field "content" must be a string`))
			return
		}
		s := string(cv.GetStringBytes())
		content = &s
	}

	m, err := h.store.GetMessageByUUID(r.Context(), messageID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.store.TransitionMessage(r.Context(), m, to, content); err != nil {
		h.fail(w, r, err)
		return
	}

	payload, err := m.JSON()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, http.StatusOK, payload)
}

// schemas handles HTTP requests on "/schema" endpoint
func (h *handler) schemas(w http.ResponseWriter, r *http.Request) {
	payload, err := json.Marshal(schema.Components())
	if err != nil {
		h.fail(w, r, &storage.SerializationError{Entity: "schema", Err: err})
		return
	}

	h.write(w, http.StatusOK, payload)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"matricula/internal/notification"
)

type HandlerSuite struct {
	suite.Suite
	publisher *fakePublisher
	health    *fakeHealth
	router    chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.publisher = &fakePublisher{}
	s.health = &fakeHealth{connected: true}
	s.router = chi.NewRouter()
	New(s.publisher, s.health, slog.Default()).Register(s.router)
}

func (s *HandlerSuite) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *HandlerSuite) TestIngest() {
	s.Run("enrollment endpoint fixes the kind", func() {
		rr := s.post("/notifications/enrollment", `{"recipient":"ana.perez@uni.edu","careerName":"Systems Engineering","kind":"Unenrollment"}`)
		s.Equal(http.StatusAccepted, rr.Code)
		s.Require().Len(s.publisher.published, 1)
		s.Equal(notification.KindEnrollment, s.publisher.published[0].Kind)
	})

	s.Run("unenrollment endpoint fixes the kind", func() {
		rr := s.post("/notifications/unenrollment", `{"recipient":"ana.perez@uni.edu","careerName":"Systems Engineering"}`)
		s.Equal(http.StatusAccepted, rr.Code)
		s.Equal(notification.KindUnenrollment, s.publisher.published[len(s.publisher.published)-1].Kind)
	})

	s.Run("blank message id and created-at are defaulted", func() {
		s.post("/notifications/enrollment", `{"recipient":"ana.perez@uni.edu","careerName":"Systems Engineering"}`)
		msg := s.publisher.published[len(s.publisher.published)-1]
		s.NotEmpty(msg.MessageID)
		s.False(msg.CreatedAt.IsZero())
	})

	s.Run("caller-supplied message id is preserved", func() {
		s.post("/notifications/enrollment", `{"recipient":"ana.perez@uni.edu","careerName":"Systems Engineering","messageId":"event-1"}`)
		msg := s.publisher.published[len(s.publisher.published)-1]
		s.Equal("event-1", msg.MessageID)
	})

	s.Run("missing recipient is a 400", func() {
		rr := s.post("/notifications/enrollment", `{"careerName":"Systems Engineering"}`)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("malformed body is a 400", func() {
		rr := s.post("/notifications/enrollment", `{"recipient":`)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("publish failure is a 502", func() {
		s.publisher.err = errors.New("channel closed")
		defer func() { s.publisher.err = nil }()

		rr := s.post("/notifications/enrollment", `{"recipient":"ana.perez@uni.edu"}`)
		s.Equal(http.StatusBadGateway, rr.Code)
	})
}

func (s *HandlerSuite) TestHealth() {
	get := func() map[string]string {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()
		s.router.ServeHTTP(rr, req)
		s.Equal(http.StatusOK, rr.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		return body
	}

	s.Run("connected broker", func() {
		s.Equal("Connected", get()["broker"])
	})

	s.Run("disconnected broker", func() {
		s.health.connected = false
		s.Equal("Disconnected", get()["broker"])
	})
}

type fakePublisher struct {
	published []notification.Message
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, msg notification.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeHealth struct {
	connected bool
}

func (f *fakeHealth) Connected() bool {
	return f.connected
}

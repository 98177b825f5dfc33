//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"studiobook/internal/handler/api"
	resdto "studiobook/internal/handler/dto/response"
	"studiobook/internal/usecase"
	"studiobook/tests/common/httptest"
	usecasemock "studiobook/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockWebhook *usecasemock.MockWebhookUsecase
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockWebhook = usecasemock.NewMockWebhookUsecase(s.mockCtrl)
	handler := api.NewWebhookHandler(s.mockWebhook)

	// The webhook endpoint is deliberately unauthenticated.
	s.router.POST("/payments/webhook", handler.Receive)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) TestReceive() {
	body := []byte(`{"type":"payment","data":{"id":"987654"}}`)

	s.Run("matched event answers ok", func() {
		accountID := uuid.New()
		s.mockWebhook.EXPECT().Process(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, input usecase.WebhookInput) (*usecase.WebhookResult, error) {
				s.Equal("payment", input.Topic)
				s.Equal("987654", input.ResourceID)
				if s.NotNil(input.AccountIDHint) {
					s.Equal(accountID, *input.AccountIDHint)
				}
				s.Equal(body, input.Body)
				return &usecase.WebhookResult{Matched: true, Applied: true}, nil
			})

		url := "/payments/webhook?topic=payment&id=987654&account_id=" + accountID.String()
		w := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, body)

		var resp resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.True(resp.OK)
		s.Empty(resp.Info)
	})

	s.Run("unmatched event still answers ok", func() {
		s.mockWebhook.EXPECT().Process(gomock.Any(), gomock.Any()).
			Return(&usecase.WebhookResult{}, nil)

		w := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/payments/webhook", body)

		var resp resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.True(resp.OK)
		s.Equal("unmatched", resp.Info)
	})

	s.Run("infrastructure failure asks for redelivery", func() {
		s.mockWebhook.EXPECT().Process(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db down"))

		w := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/payments/webhook", body)
		s.Equal(http.StatusInternalServerError, w.Code)
	})

	s.Run("malformed query hints are ignored", func() {
		s.mockWebhook.EXPECT().Process(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, input usecase.WebhookInput) (*usecase.WebhookResult, error) {
				s.Nil(input.AccountIDHint)
				return &usecase.WebhookResult{Matched: true}, nil
			})

		w := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/payments/webhook?account_id=garbage", body)
		s.Equal(http.StatusOK, w.Code)
	})
}

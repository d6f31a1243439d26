package handler

import (
	"errors"
	"io"
	"mime/multipart"

	ledgerapp "github.com/bahikhata/backend/internal/application/ledger"
	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const maxUserAgentLength = 300

// getActor builds the audit actor from the authenticated request
func getActor(c *gin.Context) (ledgerapp.Actor, error) {
	userID, err := getUserID(c)
	if err != nil {
		return ledgerapp.Actor{}, err
	}
	ua := c.Request.UserAgent()
	if len(ua) > maxUserAgentLength {
		ua = ua[:maxUserAgentLength]
	}
	return ledgerapp.Actor{
		UserID: userID,
		Context: ledger.RequestContext{
			IP:        c.ClientIP(),
			UserAgent: ua,
		},
	}, nil
}

// readImages loads the uploaded multipart image files into memory
func readImages(files []*multipart.FileHeader) ([][]byte, error) {
	if len(files) == 0 {
		return nil, nil
	}
	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New("empty image file")
		}
		images = append(images, data)
	}
	return images, nil
}

// toDecimalPtr converts a float64 to a *decimal.Decimal
func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// toDecimal converts a float64 to a decimal.Decimal
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

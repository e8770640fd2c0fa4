package vision

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"stickcheck/internal/sideline"
)

// fakeModel records what it was called with and replies with canned text.
type fakeModel struct {
	response string
	err      error

	gotPrompt string
	gotImages []ImagePayload
	calls     int
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, images []ImagePayload) (string, Usage, error) {
	f.calls++
	f.gotPrompt = prompt
	f.gotImages = images
	return f.response, Usage{}, f.err
}

func TestAssessListing_Success(t *testing.T) {
	model := &fakeModel{response: `{"confidence": 75, "reason": "Price far below market."}`}
	assessor := NewAssessor(model)

	listing := sideline.Listing{
		ItemID:         "111",
		Title:          "Bauer Vapor Hyperlite",
		Price:          "$40.00",
		Description:    "brand new",
		SellerUsername: "someuser",
	}
	a := assessor.AssessListing(context.Background(), listing)

	assert.Equal(t, 75, a.Confidence)
	assert.Equal(t, "Price far below market.", a.Reason)
	assert.Contains(t, model.gotPrompt, "Title: Bauer Vapor Hyperlite")
	assert.Contains(t, model.gotPrompt, "Price: $40.00")
	assert.Contains(t, model.gotPrompt, "Seller: someuser")
}

func TestAssessListing_NoDescriptionMarker(t *testing.T) {
	model := &fakeModel{response: `{"confidence": 0, "reason": "x"}`}
	assessor := NewAssessor(model)

	assessor.AssessListing(context.Background(), sideline.Listing{Title: "CCM stick"})
	assert.Contains(t, model.gotPrompt, "Description: No description provided")
}

func TestAssessListing_ModelErrorDegrades(t *testing.T) {
	model := &fakeModel{err: fmt.Errorf("quota exceeded")}
	assessor := NewAssessor(model)

	a := assessor.AssessListing(context.Background(), sideline.Listing{ItemID: "111"})
	assert.Equal(t, 0, a.Confidence)
	assert.Contains(t, a.Reason, "Analysis error")
	assert.Contains(t, a.Reason, "quota exceeded")
}

func TestAssessListing_MalformedOutputDegrades(t *testing.T) {
	model := &fakeModel{response: "Sorry, I can't help with that."}
	assessor := NewAssessor(model)

	a := assessor.AssessListing(context.Background(), sideline.Listing{ItemID: "111"})
	assert.Equal(t, 0, a.Confidence)
	assert.Equal(t, "unable to parse analysis response", a.Reason)
}

func TestAssessListing_DownloadsAndCapsImages(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken.jpg":
			w.WriteHeader(http.StatusNotFound)
		case "/img.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("pngdata"))
		default:
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpegdata"))
		}
	}))
	defer ts.Close()

	model := &fakeModel{response: `{"confidence": 10, "reason": "x"}`}
	assessor := NewAssessor(model)

	listing := sideline.Listing{
		ItemID: "111",
		ImageURLs: []string{
			ts.URL + "/img.png",
			ts.URL + "/broken.jpg",
			ts.URL + "/a.jpg",
			ts.URL + "/b.jpg",
			ts.URL + "/never-fetched.jpg", // beyond the 4-image cap
		},
	}
	assessor.AssessListing(context.Background(), listing)

	// Broken image silently skipped, fifth URL never considered.
	assert.Len(t, model.gotImages, 3)
	assert.Equal(t, "image/png", model.gotImages[0].MediaType)
	assert.Equal(t, []byte("pngdata"), model.gotImages[0].Data)
	assert.Equal(t, "image/jpeg", model.gotImages[1].MediaType)
}

func TestAssessListing_NoImagesStillAssessed(t *testing.T) {
	model := &fakeModel{response: `{"confidence": 55, "reason": "description red flags"}`}
	assessor := NewAssessor(model)

	a := assessor.AssessListing(context.Background(), sideline.Listing{ItemID: "111", Title: "hockey stick"})
	assert.Equal(t, 1, model.calls)
	assert.Empty(t, model.gotImages)
	assert.Equal(t, 55, a.Confidence)
}

func TestAssessListing_NilModel(t *testing.T) {
	assessor := NewAssessor(nil)
	a := assessor.AssessListing(context.Background(), sideline.Listing{ItemID: "111"})
	assert.Equal(t, 0, a.Confidence)
	assert.Contains(t, a.Reason, "not configured")
}

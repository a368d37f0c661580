package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/energy-tracker/constants"
)

type fakeDocs struct {
	pages     int
	pagesErr  error
	text      string
	textErr   error
	renderErr error
	rendered  []int
	cleanups  int
}

func (f *fakeDocs) PageCount(context.Context, string) (int, error) {
	return f.pages, f.pagesErr
}

func (f *fakeDocs) PageText(_ context.Context, _ string, first, last int) (string, error) {
	return f.text, f.textErr
}

func (f *fakeDocs) RenderPage(_ context.Context, _ string, page int) (string, func(), error) {
	if f.renderErr != nil {
		return "", nil, f.renderErr
	}
	f.rendered = append(f.rendered, page)
	return "/tmp/fake.png", func() { f.cleanups++ }, nil
}

type fakeOCR struct {
	text string
	err  error
	runs int
}

func (f *fakeOCR) Recognize(context.Context, string) (string, error) {
	f.runs++
	return f.text, f.err
}

const richBill = "Bolletta energia elettrica periodo 01/03/2024 - 31/03/2024 " +
	"F1 1200 kWh F2: 900 F3 300kWh dettaglio consumi fatturati nel periodo di riferimento"

func TestExtractFile_TextLayer(t *testing.T) {
	docs := &fakeDocs{pages: 6, text: richBill}
	ocr := &fakeOCR{}
	p := New(docs, ocr, 0, 0, nil)

	c := p.ExtractFile(context.Background(), "/in/bolletta_marzo.pdf", nil)

	assert.Equal(t, "bolletta_marzo.pdf", c.Origin)
	assert.Equal(t, constants.MethodText, c.Method)
	assert.Equal(t, constants.StatusOKVerify, c.Status)
	assert.True(t, c.Valid)
	assert.Equal(t, "2024-03", c.Month)
	require.NotNil(t, c.F1)
	assert.Equal(t, 1200.0, *c.F1)
	assert.Equal(t, 900.0, *c.F2)
	assert.Equal(t, 300.0, *c.F3)
	assert.Zero(t, ocr.runs, "OCR must not run when the text layer is good")
}

func TestExtractFile_OCRFallbackOnShortText(t *testing.T) {
	docs := &fakeDocs{pages: 1, text: "F1 1 kWh F2 2 F3 3"} // complete but under the length floor
	ocr := &fakeOCR{text: richBill}
	p := New(docs, ocr, 0, 0, nil)

	c := p.ExtractFile(context.Background(), "scan.pdf", nil)

	assert.Equal(t, constants.MethodOCR, c.Method)
	assert.True(t, c.Valid)
	assert.Equal(t, 1200.0, *c.F1)
	assert.Equal(t, 1, ocr.runs)
	assert.Equal(t, 1, docs.cleanups)
}

func TestExtractFile_OCRFallbackOnMissingBands(t *testing.T) {
	// long enough text but no band values: still weak
	docs := &fakeDocs{pages: 5, text: "Gentile cliente, in allegato la bolletta del periodo 01/05/2024 - 31/05/2024. Dettagli di pagamento e condizioni contrattuali seguono nelle pagine successive."}
	ocr := &fakeOCR{text: "F1 1200 kWh F2 900 kWh F3 300 kWh competenza 04/2023"}
	p := New(docs, ocr, 0, 0, nil)

	c := p.ExtractFile(context.Background(), "scan.pdf", nil)

	assert.Equal(t, constants.MethodOCR, c.Method)
	// the month found in the text layer wins over the OCR one
	assert.Equal(t, "2024-05", c.Month)
	assert.True(t, c.Valid)
	assert.Equal(t, []int{1, 2}, docs.rendered, "only the first two pages are OCRed")
}

func TestExtractFile_ReadError(t *testing.T) {
	docs := &fakeDocs{pagesErr: errors.New("not a pdf")}
	p := New(docs, &fakeOCR{}, 0, 0, nil)

	c := p.ExtractFile(context.Background(), "broken.pdf", nil)
	assert.Equal(t, constants.StatusReadError, c.Status)
	assert.False(t, c.Valid)
	assert.Empty(t, c.Month)
}

func TestExtractFile_PageFailuresSkipped(t *testing.T) {
	docs := &fakeDocs{pages: 2, text: "", renderErr: errors.New("render boom")}
	p := New(docs, &fakeOCR{}, 0, 0, nil)

	c := p.ExtractFile(context.Background(), "scan.pdf", nil)
	assert.Equal(t, constants.MethodOCR, c.Method)
	assert.Equal(t, constants.StatusNeedsReview, c.Status)
	assert.False(t, c.Valid)
}

func TestExtractBatch_ContinuesPastErrors(t *testing.T) {
	docs := &fakeDocs{pagesErr: errors.New("boom")}
	p := New(docs, &fakeOCR{}, 0, 0, nil)

	var labels []string
	got := p.ExtractBatch(context.Background(), []string{"a.pdf", "b.pdf"}, func(pct int, label string) {
		labels = append(labels, label)
	})
	require.Len(t, got, 2)
	assert.Equal(t, constants.StatusReadError, got[0].Status)
	assert.Equal(t, constants.StatusReadError, got[1].Status)
	assert.Contains(t, labels, "a.pdf")
	assert.Contains(t, labels, "b.pdf")
	assert.Contains(t, labels, "done")
}

func TestExtractFile_ConfiguredPageLimit(t *testing.T) {
	docs := &fakeDocs{pages: 6, text: "troppo corto"}
	ocr := &fakeOCR{text: richBill}
	p := New(docs, ocr, 0, 1, nil)

	c := p.ExtractFile(context.Background(), "scan.pdf", nil)
	assert.True(t, c.Valid)
	assert.Equal(t, []int{1}, docs.rendered, "page limit caps the OCR scan")
}

func TestExtractFile_FallbackYear(t *testing.T) {
	docs := &fakeDocs{pages: 1, text: "F1 100 kWh F2 50 kWh F3 25 kWh consumo relativo al mese 7 come da dettaglio allegato alla presente comunicazione per il cliente finale"}
	p := New(docs, &fakeOCR{}, 2024, 0, nil)

	c := p.ExtractFile(context.Background(), "bill.pdf", nil)
	assert.Equal(t, constants.MethodText, c.Method)
	assert.Equal(t, "2024-07", c.Month)
	assert.True(t, c.Valid)
}

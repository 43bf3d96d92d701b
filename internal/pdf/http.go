package pdf

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrOperationInFlight は別の操作が実行中のときに返されます。
var ErrOperationInFlight = errors.New("another operation is still running")

// JobSubmitter は操作要求をバックグラウンドで開始し、ジョブIDを返します。
type JobSubmitter interface {
	Submit(req Request) (string, error)
}

// Inspector は入力PDFのメタデータを返します。
type Inspector interface {
	Inspect(path string) (*InspectResult, error)
}

type operationBody struct {
	Inputs    []string `json:"inputs"`
	OutputDir string   `json:"outputDir"`
	Ranges    []string `json:"ranges"`
	// Pages は "1, 3-5" のようなカンマ区切り表記です。Ranges が空の場合に使います。
	Pages string `json:"pages"`
}

// OperationHandler は POST /api/pdf/:operation のハンドラーを返します。
func OperationHandler(svc JobSubmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		op, ok := ParseOperation(c.Param("operation"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    CodeInvalidInput,
				"message": "Unsupported operation.",
			})
			return
		}

		var body operationBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    CodeInvalidInput,
				"message": "Send inputs and outputDir as JSON.",
			})
			return
		}

		req, err := buildRequest(op, body)
		if err != nil {
			respondWithError(c, err)
			return
		}

		jobID, err := svc.Submit(req)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
	}
}

// InspectHandler は GET /api/pdf/inspect のハンドラーを返します。
func InspectHandler(svc Inspector) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Inspect(c.Query("path"))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// buildRequest は入力欄の空チェックを行い Request を組み立てます。
// 入力数などの検証はワーカー側で行います。
func buildRequest(op OperationType, body operationBody) (Request, error) {
	inputs := make([]string, 0, len(body.Inputs))
	for _, in := range body.Inputs {
		if in = strings.TrimSpace(in); in != "" {
			inputs = append(inputs, in)
		}
	}
	if len(inputs) == 0 {
		return Request{}, newError(CodeInvalidInput, "Missing input PDFs.", nil)
	}
	outputDir := strings.TrimSpace(body.OutputDir)
	if outputDir == "" {
		return Request{}, newError(CodeInvalidInput, "Missing output folder.", nil)
	}

	req := Request{Operation: op, Inputs: inputs, OutputDir: outputDir}
	if operations[op].needsRanges {
		ranges := SplitRangeExpr(strings.Join(body.Ranges, ","))
		if len(ranges) == 0 {
			ranges = SplitRangeExpr(body.Pages)
		}
		if len(ranges) == 0 {
			return Request{}, newError(CodeInvalidInput, "Missing page ranges.", nil)
		}
		req.Ranges = ranges
	}
	return req, nil
}

func respondWithError(c *gin.Context, err error) {
	var apiErr *Error
	switch {
	case errors.Is(err, ErrOperationInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"code":    "OPERATION_IN_PROGRESS",
			"message": "Another operation is still running. Wait for it to finish or cancel it.",
		})
	case errors.As(err, &apiErr):
		status := http.StatusBadRequest
		if apiErr.Code == CodePDFIO {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    CodeInternal,
			"message": "Internal server error.",
		})
	}
}

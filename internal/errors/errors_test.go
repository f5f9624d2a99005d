package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"edakit/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrapDerivesCodeFromDomain(t *testing.T) {
	err := Wrap(core.NewColumnNotFoundError("score"), "normality check failed")
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, core.IsColumnNotFound(err), "wrapped error must still match the sentinel")
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))

	err = Wrapf(core.NewDegenerateInputError("too few rows"), "column %s", "age")
	assert.Equal(t, CodeDegenerateInput, GetCode(err))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))

	assert.Equal(t, CodeInvalidOperation, GetCode(core.NewInvalidOperationError("not numeric")))
	assert.Equal(t, CodeInternalError, GetCode(stderrors.New("boom")))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCodeAndHelpers(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad json"))
	assert.True(t, IsAppError(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	err = WithCode(CodeConfigInvalid, ConfigInvalid("alpha out of range"))
	assert.Equal(t, "alpha out of range", err.Error())

	assert.Equal(t, "report run not found", NotFound("report run").Error())
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(DatabaseError("insert failed", stderrors.New("conn refused"))))
	assert.Equal(t, CodeIOError, GetCode(IOError("read failed", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(InternalError("x")))
}

package chat

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ChatRequest is the body of POST /v1/chat/:user_id.
type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=4000"`
	Company string `json:"company" binding:"required,tenantname"`
}

// RegisterValidations installs custom binding rules on gin's validator.
// tenantname rejects company identifiers that are blank or contain control
// characters, since the value ends up inside a generated match stage.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("tenantname", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if strings.TrimSpace(value) == "" {
			return false
		}
		for _, r := range value {
			if r < 0x20 || r == 0x7f {
				return false
			}
		}
		return true
	})
}

package model

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs custom binding rules on gin's validator.
// Called once at startup.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("appointment_status", validAppointmentStatus)
	v.RegisterValidation("appointment_range", validAppointmentRange)
}

func validAppointmentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return AppointmentStatus(value).Valid()
}

func validAppointmentRange(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return AppointmentRange(value).Valid()
}

package model

import "github.com/golang-jwt/jwt/v5"

type AppClaims struct {
	AccountID  string `json:"account_id"`
	CardNumber string `json:"card_number"`
	jwt.RegisteredClaims
}

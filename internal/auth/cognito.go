// Package auth talks to the identity provider. Cognito owns passwords, confirmation
// codes and token issuance; this package only forwards calls and verifies tokens.
package auth

import (
	"context"
	"errors"

	"relief/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoAPI is the part of the Cognito client used here.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
}

type Session struct {
	AccessToken string
	ExpiresIn   int
}

type Cognito struct {
	client     CognitoAPI
	clientID   string
	userPoolID string
}

func NewCognito(client CognitoAPI, clientID, userPoolID string) *Cognito {
	return &Cognito{client: client, clientID: clientID, userPoolID: userPoolID}
}

// SignUp registers the user and returns the subject Cognito assigned.
func (c *Cognito) SignUp(ctx context.Context, username, email, password string) (string, error) {
	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(username),
		Password: aws.String(password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	}

	resp, err := c.client.SignUp(ctx, input)
	if err != nil {
		return "", mapCognitoError(err)
	}

	return aws.ToString(resp.UserSub), nil
}

// DeleteUser removes a user from the pool. A user that is already gone is not an error.
func (c *Cognito) DeleteUser(ctx context.Context, username string) error {
	_, err := c.client.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	})

	var notFound *ctypes.UserNotFoundException
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func (c *Cognito) ConfirmSignUp(ctx context.Context, username, code string) error {
	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
	}

	_, err := c.client.ConfirmSignUp(ctx, input)
	return mapCognitoError(err)
}

func (c *Cognito) Login(ctx context.Context, username, password string) (*Session, error) {
	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	}

	resp, err := c.client.InitiateAuth(ctx, input)
	if err != nil {
		return nil, mapCognitoError(err)
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		return nil, types.Unauthenticated("login failed")
	}

	return &Session{
		AccessToken: aws.ToString(resp.AuthenticationResult.AccessToken),
		ExpiresIn:   int(resp.AuthenticationResult.ExpiresIn),
	}, nil
}

// Logout revokes every token issued to the user behind accessToken.
func (c *Cognito) Logout(ctx context.Context, accessToken string) error {
	_, err := c.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	return mapCognitoError(err)
}

func mapCognitoError(err error) error {
	if err == nil {
		return nil
	}

	var (
		usernameExists  *ctypes.UsernameExistsException
		invalidPassword *ctypes.InvalidPasswordException
		invalidParam    *ctypes.InvalidParameterException
		codeMismatch    *ctypes.CodeMismatchException
		expiredCode     *ctypes.ExpiredCodeException
		notAuthorized   *ctypes.NotAuthorizedException
		notConfirmed    *ctypes.UserNotConfirmedException
		userNotFound    *ctypes.UserNotFoundException
	)

	switch {
	case errors.As(err, &usernameExists):
		return types.FieldValidation("username", "a user with that username already exists")
	case errors.As(err, &invalidPassword):
		return types.FieldValidation("password", invalidPassword.ErrorMessage())
	case errors.As(err, &invalidParam):
		return types.Validation(invalidParam.ErrorMessage())
	case errors.As(err, &codeMismatch):
		return types.FieldValidation("code", "invalid confirmation code")
	case errors.As(err, &expiredCode):
		return types.FieldValidation("code", "confirmation code has expired")
	case errors.As(err, &notConfirmed):
		return types.Unauthenticated("account has not been confirmed")
	case errors.As(err, &notAuthorized), errors.As(err, &userNotFound):
		return types.Unauthenticated("invalid credentials")
	}

	return err
}

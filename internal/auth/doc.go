// Package auth signs the operator in and out of the backend session.
//
// Sign-in primes the CSRF cookie and posts the credentials. Failed
// credential checks are reported on both the email and password fields with
// one message. The backend marks them with the "invalid_credentials" code;
// backends that predate the code are recognised by their exact email error
// text (InvalidCredentialsMessage), which is a contract with the server copy.
package auth

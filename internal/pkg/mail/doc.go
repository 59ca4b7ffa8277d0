// Package mail sends email. Callers build a Message and hand it to a Mail;
// SMTP is the only transport.
package mail

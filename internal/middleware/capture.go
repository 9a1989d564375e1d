package middleware

import "context"

const sessionCaptureKey contextKey = "session_capture"

func withSessionCapture(ctx context.Context, c *sessionCapture) context.Context {
	return context.WithValue(ctx, sessionCaptureKey, c)
}

func sessionCaptureFrom(ctx context.Context) *sessionCapture {
	c, _ := ctx.Value(sessionCaptureKey).(*sessionCapture)
	return c
}

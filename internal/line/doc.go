// Package line provides a minimal client for the LINE Messaging API push
// endpoint, used to deliver reminder messages to a single user.
//
// Only text messages are supported. A push succeeds on any 2xx response;
// every other outcome is reported as a *PushError and is not retried.
//
// Example usage:
//
//	client, err := line.NewClient(token)
//	if err != nil {
//		return err
//	}
//	if err := client.Push(ctx, userID, "hello"); err != nil {
//		return err
//	}
package line

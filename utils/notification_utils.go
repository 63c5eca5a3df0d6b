package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/astrixglobal/astrix_backend/config"
	"github.com/astrixglobal/astrix_backend/models"
)

// SaveNotification saves a user notification to the database
func SaveNotification(db *mongo.Database, userID primitive.ObjectID, title, message, notifType, priority, link string, data interface{}) error {
	collection := db.Collection("notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Priority:  priority,
		Link:      link,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SaveRoleNotification saves a notification addressed to a role (e.g. the
// admin summary after a bonus pass) instead of a single user.
func SaveRoleNotification(db *mongo.Database, role, title, message, notifType string, data interface{}) error {
	collection := db.Collection("notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		Role:      role,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Priority:  "normal",
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendFCMNotificationToUser sends a Firebase Cloud Messaging push to a user
// if they have a registered FCM token. Missing token or missing Firebase
// config is not an error; the in-app notification is still stored.
func SendFCMNotificationToUser(db *mongo.Database, userID primitive.ObjectID, title, message string, data map[string]string) error {
	if config.FirebaseApp == nil {
		log.Println("Firebase not initialized, skipping push notification")
		return nil
	}

	var user models.User
	err := db.Collection("users").FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.FCMToken == "" {
		return nil
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		log.Printf("Error getting messaging client: %v", err)
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	notificationData := map[string]string{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for key, value := range data {
		notificationData[key] = value
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: notificationData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "astrix_fcm_channel",
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		log.Printf("Error sending FCM notification: %v", err)
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}

	log.Printf("FCM notification sent to user %s: %s", userID.Hex(), response)
	return nil
}

// SendAdminSummaryEmail emails the admin inbox after a bonus pass that
// created payouts. SMTP failures are logged, not propagated; the pass has
// already written its state.
func SendAdminSummaryEmail(subject, body string) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if smtpHost == "" || adminEmail == "" {
		log.Println("SMTP not configured, skipping admin summary email")
		return
	}

	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", adminEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send admin summary email: %v", err)
	}
}

package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "GreenFleet Logistics"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #2E7D32; margin: 0;">GreenFleet</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 GreenFleet Logistics. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "GreenFleet-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendEmailVerificationOTP sends the account verification code
func SendEmailVerificationOTP(email, otp string) error {
	subject := "Verify Your Email - GreenFleet"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Email Verification</h1>
					<p>Hello,</p>
					<p>Your GreenFleet verification code is:</p>
					<h2 style="text-align: center; letter-spacing: 8px; color: #2E7D32;">%s</h2>
					<p>The code expires in 15 minutes.</p>
					<p>Best regards,<br>The GreenFleet Team</p>
				</div>`+emailFooter,
		otp)

	return sendEmail([]string{email}, subject, body)
}

// SendPasswordResetEmail sends the password reset code
func SendPasswordResetEmail(email, otp string) error {
	subject := "Password Reset Code - GreenFleet"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Password Reset</h1>
					<p>Hello,</p>
					<p>Your password reset code is:</p>
					<h2 style="text-align: center; letter-spacing: 8px; color: #2E7D32;">%s</h2>
					<p>The code expires in 15 minutes. If you did not request a reset, ignore this email.</p>
					<p>Best regards,<br>The GreenFleet Team</p>
				</div>`+emailFooter,
		otp)

	return sendEmail([]string{email}, subject, body)
}

// SendShipmentBookedEmail notifies the client that the booking was created
func SendShipmentBookedEmail(clientEmail, trackingCode, destination string) error {
	subject := "Shipment Booked - GreenFleet"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Shipment Booked</h1>
					<p>Hello,</p>
					<p>Your shipment to <strong>%s</strong> has been booked. Your tracking code is <strong>%s</strong>.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/track/%s" style="background-color: #2E7D32; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Track Your Shipment</a>
					</div>
					<p>Best regards,<br>The GreenFleet Team</p>
				</div>`+emailFooter,
		destination, trackingCode, baseURL, trackingCode)

	return sendEmail([]string{clientEmail}, subject, body)
}

// SendDeliveryOTPEmail sends the delivery confirmation code to the receiver
func SendDeliveryOTPEmail(receiverEmail, receiverName, otp string) error {
	subject := "Your Delivery Code - GreenFleet"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Delivery Confirmation Code</h1>
					<p>Hello %s,</p>
					<p>A parcel is on its way to you. Share this code with the driver only when you receive it:</p>
					<h2 style="text-align: center; letter-spacing: 8px; color: #2E7D32;">%s</h2>
					<p>Best regards,<br>The GreenFleet Team</p>
				</div>`+emailFooter,
		receiverName, otp)

	return sendEmail([]string{receiverEmail}, subject, body)
}

// SendDriverApprovedEmail notifies the driver the application was approved
func SendDriverApprovedEmail(driverEmail, driverName string) error {
	subject := "Application Approved - GreenFleet"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Welcome Aboard</h1>
					<p>Hello %s,</p>
					<p>Your driver application has been approved. You can now go online and accept shipments.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/login" style="background-color: #2E7D32; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Login to GreenFleet</a>
					</div>
					<p>Best regards,<br>The GreenFleet Team</p>
				</div>`+emailFooter,
		driverName, baseURL)

	return sendEmail([]string{driverEmail}, subject, body)
}

// SendDriverRejectedEmail notifies the driver the application was rejected
func SendDriverRejectedEmail(driverEmail, reason string) error {
	subject := "Application Update - GreenFleet"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Application Not Approved</h1>
					<p>Hello,</p>
					<p>Unfortunately your driver application was not approved at this time.</p>
					<p>Reason: %s</p>
					<p>You may reapply with corrected documents.</p>
					<p>Best regards,<br>The GreenFleet Team</p>
				</div>`+emailFooter,
		reason)

	return sendEmail([]string{driverEmail}, subject, body)
}

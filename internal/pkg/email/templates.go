package email

// Email templates in HTML format

// BaseTemplate is the base layout for all emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #f4f4f8;
            color: #1a1a1a;
        }
        .container {
            max-width: 560px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #ffffff;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #e4e4ea;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
            font-size: 24px;
            font-weight: 700;
            color: #b8860b;
        }
        p {
            color: #444444;
            font-size: 16px;
            line-height: 1.6;
            margin: 0 0 16px;
        }
        .code {
            text-align: center;
            font-size: 32px;
            font-weight: 700;
            letter-spacing: 8px;
            color: #b8860b;
            margin: 24px 0;
        }
        .footer {
            text-align: center;
            margin-top: 32px;
            color: #888888;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <div class="logo">{{.AppName}}</div>
            {{.Content}}
        </div>
        <div class="footer">
            <p>This is an automated message from {{.AppName}}. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`

// VerificationCodeTemplate carries a one-time email code
const VerificationCodeTemplate = `
<p>Your verification code is:</p>
<div class="code">{{.Code}}</div>
<p>The code expires in {{.ExpiresInMinutes}} minutes. You can request a new one after {{.ResendWaitSeconds}} seconds.</p>
<p style="color: #888;">If you did not request this code, you can safely ignore this email.</p>
`

// VerificationCodeText is the plain-text fallback for VerificationCodeTemplate
const VerificationCodeText = `Your {{.AppName}} verification code is {{.Code}}. It expires in {{.ExpiresInMinutes}} minutes.`

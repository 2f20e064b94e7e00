package i18n

import (
	"strconv"
	"strings"

	"telecountdown/internal/render"
)

// DefaultLang is the language the bot answers in unless told otherwise.
const DefaultLang = "fa"

// Supported languages: Persian (fa), English (en)
var supported = map[string]map[string]string{
	"fa": {
		"times_up":  "زمان به پایان رسید!",
		"created":   " شمارش معکوس با موفقیت شروع شد!",
		"cancelled": " عملیات لغو شد.",
		"ask_link": "لطفاً لینک پیام کانال را ارسال کنید.\n" +
			"مثال: https://t.me/channelname/123",
		"bad_link": " لینک پیام نامعتبر است. لطفاً دوباره تلاش کنید یا /cancel را بزنید.",
		"ask_time": "لطفاً تاریخ و زمان پایان را به صورت شمسی وارد کنید:\n" +
			"فرمت: YYYY-MM-DD HH:MM:SS\n" +
			"مثال:\n" +
			"<code>1403-12-29 23:59:59</code>",
		"bad_time": " فرمت تاریخ نامعتبر است. لطفاً دوباره تلاش کنید یا /cancel را بزنید.\n" +
			"مثال صحیح: 1403-12-29 23:59:59",
		"ask_template": "لطفاً قالب پیام را وارد کنید. از متغیرهای زیر استفاده کنید:\n" +
			"%s\n\n" +
			"مثال:\n" +
			"<code>{days} روز و {hours} ساعت و {minutes} دقیقه و {seconds} ثانیه\nتا شروع مسابقه</code>",
		"missing_placeholders": " قالب پیام باید شامل تمام متغیرها باشد. موارد زیر در پیام شما وجود ندارند:\n" +
			"%s\n\n" +
			"لطفاً دوباره تلاش کنید یا /cancel را بزنید.",
		"bad_template": " قالب پیام نامعتبر است. لطفاً دوباره تلاش کنید یا /cancel را بزنید.",
		"gone_notify": "پیام شمارش معکوس پیدا نشد یا پاک شده است. شمارش معکوس متوقف شد.\n" +
			"شناسه پیام: %s",
		"edit_error_notify": " خطا در بروزرسانی پیام شمارش معکوس. لطفاً مطمئن شوید که ربات ادمین کانال است. \n%s",
		"start_instructions": " سلام! من یک ربات شمارش معکوس هستم.\n\n" +
			"برای استفاده از من در کانال خود، لطفا مراحل زیر را دنبال کنید:\n" +
			"1️⃣ من را به کانال خود اضافه کنید\n" +
			"2️⃣ من را به عنوان ادمین کانال تنظیم کنید\n" +
			"3️⃣ یک پیام در کانال ارسال کنید و لینک پیام را کپی کنید\n" +
			"4️⃣ دستور /add_countdown را ارسال کنید و لینک پیام را برای من بفرستید\n" +
			"5️⃣ زمان پایان را به صورت تاریخ شمسی وارد کنید\n" +
			"6️⃣ قالب پیام را با استفاده از متغیرهای زیر وارد کنید:\n\n" +
			"%s\n\n" +
			"مثال تاریخ: 1403-12-29 23:59:59\n" +
			"مثال قالب پیام: {days} روز و {hours} ساعت و {minutes} دقیقه و {seconds} ثانیه تا شروع مسابقه\n\n" +
			"بات از HTML ساپورت میکند!",
		"unknown":        "برای ساخت شمارش معکوس جدید دستور /add_countdown را ارسال کنید.",
		"list_empty":     "شما هیچ شمارش معکوس فعالی ندارید.",
		"list_header":    "شمارش معکوس های فعال شما:",
		"stopped":        " شمارش معکوس متوقف شد.",
		"stop_usage":     "برای توقف، لینک پیام را بعد از دستور بفرستید:\n/stop https://t.me/channelname/123",
		"stop_not_found": "شمارش معکوسی با این لینک پیدا نشد.",
	},
	"en": {
		"times_up":  "Time is up!",
		"created":   "Countdown started successfully!",
		"cancelled": "Operation cancelled.",
		"ask_link": "Please send the channel message link.\n" +
			"Example: https://t.me/channelname/123",
		"bad_link": "Invalid message link. Please try again or send /cancel.",
		"ask_time": "Please enter the end date and time:\n" +
			"Format: YYYY-MM-DD HH:MM:SS\n" +
			"Example:\n" +
			"<code>1403-12-29 23:59:59</code>",
		"bad_time": "Invalid date format. Please try again or send /cancel.\n" +
			"Correct example: 1403-12-29 23:59:59",
		"ask_template": "Please enter the message template using these variables:\n" +
			"%s\n\n" +
			"Example:\n" +
			"<code>{days} days, {hours} hours, {minutes} minutes, {seconds} seconds\nuntil the event</code>",
		"missing_placeholders": "The template must contain every variable. Missing:\n" +
			"%s\n\n" +
			"Please try again or send /cancel.",
		"bad_template":      "Invalid message template. Please try again or send /cancel.",
		"gone_notify":       "Countdown message was not found or has been deleted. Countdown stopped.\nMessage id: %s",
		"edit_error_notify": "Failed to update the countdown message. Make sure the bot is a channel admin.\n%s",
		"start_instructions": "Hi! I am a countdown bot.\n\n" +
			"To use me in your channel:\n" +
			"1️⃣ Add me to your channel\n" +
			"2️⃣ Make me a channel admin\n" +
			"3️⃣ Post a message and copy its link\n" +
			"4️⃣ Send /add_countdown and give me the link\n" +
			"5️⃣ Enter the end date and time\n" +
			"6️⃣ Enter the message template using:\n\n" +
			"%s\n\n" +
			"Date example: 1403-12-29 23:59:59\n" +
			"Template example: {days} days and {hours} hours and {minutes} minutes and {seconds} seconds left\n\n" +
			"HTML is supported!",
		"unknown":        "Send /add_countdown to create a new countdown.",
		"list_empty":     "You have no active countdowns.",
		"list_header":    "Your active countdowns:",
		"stopped":        "Countdown stopped.",
		"stop_usage":     "To stop a countdown, send its message link after the command:\n/stop https://t.me/channelname/123",
		"stop_not_found": "No countdown found for that link.",
	},
}

// tokenLabels names each template token in the user's language, shown in
// validation errors next to the token itself.
var tokenLabels = map[string]map[string]string{
	"fa": {
		render.TokenDays:    "روز",
		render.TokenHours:   "ساعت",
		render.TokenMinutes: "دقیقه",
		render.TokenSeconds: "ثانیه",
	},
	"en": {
		render.TokenDays:    "days",
		render.TokenHours:   "hours",
		render.TokenMinutes: "minutes",
		render.TokenSeconds: "seconds",
	},
}

// T looks up a message by key, falling back to the default language and
// finally to the key itself.
func T(lang, key string) string {
	if m, ok := supported[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := supported[DefaultLang][key]; ok {
		return v
	}
	return key
}

// TokenLabel returns the human name of a template token.
func TokenLabel(lang, token string) string {
	if m, ok := tokenLabels[lang]; ok {
		if v, ok := m[token]; ok {
			return v
		}
	}
	if v, ok := tokenLabels[DefaultLang][token]; ok {
		return v
	}
	return token
}

// persianDigits maps each ASCII digit to its Eastern Arabic (Persian) glyph.
var persianDigits = [10]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

// Digits formats n using the digit glyphs of the given language. Used for
// presentation only; stored values stay ASCII.
func Digits(lang string, n int) string {
	s := strconv.Itoa(n)
	if lang != "fa" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(persianDigits[r-'0'])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

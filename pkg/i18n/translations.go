package i18n

// templates maps template key → language → body.
var templates = map[string]map[string]string{
	// booking_id, service_name, date, total
	"confirm": {
		"ar": "تم تأكيد حجزك {{booking_id}} لخدمة {{service_name}} يوم {{date}}. الإجمالي: {{total}}",
		"en": "Your booking {{booking_id}} for {{service_name}} on {{date}} is confirmed. Total: {{total}}",
	},
	// service_name, time
	"reminder": {
		"ar": "تذكير: موعد {{service_name}} غداً الساعة {{time}}",
		"en": "Reminder: your {{service_name}} appointment is tomorrow at {{time}}",
	},
	// booking_id
	"on_the_way": {
		"ar": "فريقنا في الطريق إليك لحجز {{booking_id}}",
		"en": "Our team is on the way for booking {{booking_id}}",
	},
	// booking_id, review_link
	"review": {
		"ar": "نأمل أن تكون راضياً عن خدمتنا. يرجى تقييم الخدمة: {{review_link}}",
		"en": "We hope you enjoyed our service. Please rate us: {{review_link}}",
	},
	// booking_id
	"canceled": {
		"ar": "تم إلغاء حجزك {{booking_id}}",
		"en": "Your booking {{booking_id}} has been canceled",
	},
	// booking_id, date
	"postponed": {
		"ar": "تم تأجيل حجزك {{booking_id}}. الموعد الجديد: {{date}}",
		"en": "Your booking {{booking_id}} has been postponed. New time: {{date}}",
	},
}

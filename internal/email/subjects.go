package email

const (
	subjectCommissionAccruedFmt = "Nueva comisión por el trabajo %s"
	subjectCommissionReminder   = "Recordatorio: tienes comisiones pendientes de pago"
	subjectSettlementReceipt    = "Comprobante de pago de comisiones"
)

package workflow

// Trigger represents an event that can advance a case to another stage.
type Trigger string

const (
	TriggerStartCase        Trigger = "START_CASE"
	TriggerPatientInfo      Trigger = "PATIENT_INFO_UPLOADED"
	TriggerClinicalNotes    Trigger = "CLINICAL_NOTES_UPLOADED"
	TriggerChooseUpload     Trigger = "CHOOSE_UPLOAD"
	TriggerChooseRemove     Trigger = "CHOOSE_REMOVE"
	TriggerChooseSubmitAsIs Trigger = "CHOOSE_SUBMIT_WITHOUT"
	TriggerPauseCase        Trigger = "PAUSE_CASE"
	TriggerAdditionalDocs   Trigger = "ADDITIONAL_DOCS_UPLOADED"
	TriggerRCMResponded     Trigger = "RCM_RESPONDED"
	TriggerConfirmForecast  Trigger = "CONFIRM_FORECAST"
	TriggerConfirmSOAP      Trigger = "CONFIRM_SOAP"
	TriggerSignedSOAPNote   Trigger = "SIGNED_SOAP_UPLOADED"
	TriggerSubmitClaim      Trigger = "SUBMIT_CLAIM"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}

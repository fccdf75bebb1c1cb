package domain

// MedicalDisclaimer accompanies every analysis returned to a user.
const MedicalDisclaimer = `IMPORTANT MEDICAL DISCLAIMER

This tool is for educational purposes only and should not be used as a substitute for professional medical advice, diagnosis, or treatment.

Always seek the advice of your physician or other qualified health provider with any questions you may have regarding a medical condition. Never disregard professional medical advice or delay in seeking it because of something you have read here. If you think you may have a medical emergency, call your doctor or emergency services immediately. This tool does not provide medical advice and is not intended to diagnose, treat, cure, or prevent any disease.

The information provided is based on general medical knowledge and should not be considered as personalized medical advice.`

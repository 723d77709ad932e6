package workflow

// SOAPNoteSample is the operative-visit SOAP note prepared for provider
// signature. Content is fixed training data for the demo case.
const SOAPNoteSample = `VINCENT W. H. WANG DDS INC
572 E Green St, Ste 205, Pasadena, CA 91101

Patient Name: MCCORMICK, DEBORAH A.
DOB: 12/18/1951
Gender: Female
Primary Payor: Medicare CA - Southern California
MBI/Primary #: 4VR1M50JQ34
Service Date (DOS): 10/06/2023
MR/Chart ID / Patient Account #: M98593279
Referring/Attending Provider: Vincent W. H. Wang, DDS (NPI 1366503385)

SOAP NOTE (Operative Visit)

S - Subjective
- Chief Complaint: "My jaw hurts and my bite feels off. Hard to chew on the left."
- HPI: 72-year-old female with chronic jaw pain and malocclusion, progressively worsening over ~12 months. Pain 6/10 with mastication; improved with soft diet and OTC ibuprofen. Intermittent left maxillary sinus pressure. Denies fever, trismus, dysphagia, or recent dental abscess.
- ROS: Negative for chest pain, dyspnea, bleeding disorders. Positive for intermittent sinus pressure as above; otherwise non-contributory.
- PMH (training assumption): Hypertension (controlled), hyperlipidemia; no history of bleeding disorder; no bisphosphonate use; no prior head & neck radiation. ASA class II.
- Meds (training assumption): Lisinopril 10 mg daily; Atorvastatin 20 mg nightly; Vitamin D/calcium; Ibuprofen 200 mg as needed.
- Allergies: No known drug allergies (NKDA).
- Social: Non-smoker; occasional wine; lives independently.

O - Objective
- Vitals (pre-op): BP 128/76 mmHg, HR 74 bpm, Temp 98.1 F, SpO2 98% RA, BMI not assessed.
- Exam findings:
  * Maxillary ridge deficiency with tenderness along the right edentulous ridge.
  * Mandibular alveolar irregularities with two lateral exostoses causing occlusal interference and mucosal irritation.
  * Left posterior mandible with palpable submucosal foreign material; mucosa intact without purulence.
  * Occlusion: malocclusion with reduced vertical dimension; no trismus.
  * Imaging/Studies: Prior panoramic/CBCT consistent with ridge atrophy, mandibular exostoses, and left maxillary sinus changes; no acute osteomyelitis.

Anesthesia & Peri-op Management (training assumption)
- Technique: Local anesthesia with minimal sedation.
- Local: 2% lidocaine with 1:100,000 epi (4 cartridges, 7.2 mL) via infiltrations + IAN block; 0.5% bupivacaine with 1:200,000 epi (1 cartridge, 1.8 mL) for post-op analgesia.
- Sedation: Oral triazolam 0.25 mg pre-procedure + nitrous oxide 30% titrated; continuous pulse oximetry; BP every 5 minutes; suction/oxygen available; NPO 6 hours confirmed.
- Antisepsis: 0.12% chlorhexidine rinse pre-op; sterile drape; PPE per protocol.

O - Procedures Performed (CPT with analogous CDT mapping)
- 21210: Bone graft, maxilla (right ridge) (CDT D7950).
  * Decortication; placement of allogeneic cortico-cancellous particulate graft (~1.5 cc) with resorbable collagen membrane (15x20 mm). Primary closure with 4-0 chromic.
- 21209: Chin augmentation with bone graft (CDT D7994; distinct site).
  * Onlay augmentation using autogenous shavings (bone scraper) blended with allograft; secured to symphysis; layered closure with 4-0 Vicryl.
- 21026 x2: Excision of mandibular exostoses (CDT D7472).
  * Removal of two separate bony prominences causing prosthetic/occlusal interference.
- 10120 x2: Removal of foreign body, subcutaneous/osseous (CDT D7296).
  * Two retained fragments excised from left posterior mandible via separate incision; copious irrigation.
- 31020: Surgical sinusotomy, left maxillary (CDT D7953 analog).
  * Restored ostial patency and sinus floor support to aid graft integration; hemostasis achieved.
- 40800: Excision of vestibule of mouth (anterior mandible) (CDT D7471).
  * Limited vestibuloplasty/soft-tissue excision for prosthetic preparation; straightforward closure.

Other Intra-op Details
- Estimated Blood Loss: ~20 mL.
- Fluids: PO as tolerated post-op.
- Specimens: None submitted.
- Complications: None.
- Counts: Instruments/gauze/sutures correct at case end.

A - Assessment
- R68.84: Jaw pain.
- M26.4: Malocclusion of teeth.
- Post-op condition stable; pain controlled; no immediate complications.

P - Plan
- Medications:
  * Amoxicillin 500 mg PO TID x7 days.
  * Ibuprofen 600 mg PO every 6 hours as needed (max 2400 mg/day); may alternate with Acetaminophen 500 mg every 6 hours as needed (max 3000 mg/day).
  * Chlorhexidine 0.12% rinse 15 mL BID for 7-10 days (avoid eating/drinking for 30 minutes after use).
- Post-op Instructions: Ice 20 minutes on/off first 24 hours; head elevation; soft diet for 48-72 hours; avoid vigorous rinsing or straws for 24 hours; no smoking. For sinusotomy: no nose blowing for 10 days, sneeze with mouth open, use OTC saline spray as needed. Call for fever >101.5 F, uncontrolled pain/bleeding, or expanding swelling. Written instructions provided.
- Follow-Up: 10-14 days for suture check and healing evaluation; sooner as needed.
- Return Precautions: As above; 24-hour on-call number provided.
- Billing/Coding Summary: 21210; 21209; 21026 x2; 10120 x2; 31020; 40800 linked to R68.84, M26.4.

Provider: Vincent W. H. Wang, DDS
Signature: _________________________
Date: _________________________`

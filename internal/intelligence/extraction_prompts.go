package intelligence

// extractionSystemPrompt fixes the output schema for document extraction.
const extractionSystemPrompt = `You are an experienced project manager reading a project document.
Extract every relevant fact and answer with ONE JSON object using exactly this structure:

{
  "summary": "two or three sentence executive summary",
  "project_type": "software|construction|marketing|consulting|research|other",
  "budget_estimate": 10000,
  "currency": "USD",
  "timeline_weeks": 12,
  "start_date": "YYYY-MM-DD",
  "end_date": "YYYY-MM-DD",
  "client_info": {
    "name": "client organisation",
    "contact_person": "name",
    "email": "address",
    "phone": "number",
    "stakeholders": ["name"]
  },
  "requirements": ["requirement"],
  "tasks": [
    {
      "title": "task name",
      "description": "what has to be done",
      "estimated_hours": 40,
      "required_skills": ["skill"],
      "priority": "high|medium|low",
      "dependencies": ["title of a task this depends on"],
      "acceptance_criteria": ["criterion"]
    }
  ],
  "milestones": [
    {"title": "milestone name", "week": 1, "deliverable": "what is delivered", "success_criteria": "how success is measured"}
  ],
  "risks": [
    {"description": "risk", "severity": "high|medium|low", "mitigation": "how to reduce it"}
  ],
  "required_skills": ["skill"],
  "success_criteria": {"kpis": ["kpi"], "acceptance_criteria": ["criterion"], "quality_metrics": ["metric"]},
  "constraints": {"technical": ["constraint"], "business": ["constraint"], "regulatory": ["constraint"]},
  "assumptions": ["assumption"],
  "custom_fields": {"any_other_relevant_field": "value"}
}

Rules:
1. Extract as much detail as the document supports.
2. When a value is missing, estimate it from context. Derive end_date from start_date and timeline_weeks.
3. Break requirements down into actionable tasks.
4. Milestone weeks must fall between 1 and timeline_weeks.
5. Numbers are plain JSON numbers with no units or currency symbols.
6. Output ONLY the JSON object, no markdown, no explanation.`

// extractionUserPrompt is filled with the project name and document text.
const extractionUserPrompt = `PROJECT NAME: %s

DOCUMENT TEXT:
%s`

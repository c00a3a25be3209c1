package store

const (
	createUser = `
		INSERT INTO users (
			full_name,
			username,
			email,
			role,
			designation,
			department,
			skills,
			password,
			is_approved,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	getUserByID = `
		SELECT
			id,
			full_name,
			username,
			email,
			role,
			designation,
			department,
			skills,
			password,
			is_approved,
			created_at
		FROM users
		WHERE id = ?;`

	getAllUsers = `
		SELECT
			id,
			full_name,
			username,
			email,
			role,
			designation,
			department,
			skills,
			password,
			is_approved,
			created_at
		FROM users
		ORDER BY id;`

	updateUser = `
		UPDATE users SET
			role        = ?,
			designation = ?,
			department  = ?,
			skills      = ?,
			is_approved = ?
		WHERE id = ?;`

	deleteUser = `
		DELETE FROM users
		WHERE id = ?;`

	countUsername = `
		SELECT COUNT(1)
		FROM users
		WHERE username = ?;`

	createIncident = `
		INSERT INTO incidents (
			title,
			description,
			priority,
			status,
			failing_code,
			fixed_code,
			tester_id,
			tester_name,
			developer_id,
			developer_name,
			created_at,
			due_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	getIncidentByID = `
		SELECT
			id,
			title,
			description,
			priority,
			status,
			failing_code,
			fixed_code,
			tester_id,
			tester_name,
			developer_id,
			developer_name,
			created_at,
			due_date
		FROM incidents
		WHERE id = ?;`

	assignIncidentDeveloper = `
		UPDATE incidents SET
			developer_id   = ?,
			developer_name = ?,
			status         = 'Open'
		WHERE id = ?;`

	updateIncidentStatus = `
		UPDATE incidents SET
			status = ?
		WHERE id = ?;`

	resolveIncident = `
		UPDATE incidents SET
			fixed_code = ?,
			status     = 'Resolved'
		WHERE id = ?;`

	createAttachment = `
		INSERT INTO attachments (
			id,
			incident_id,
			name,
			type,
			size,
			data,
			position
		) VALUES (?, ?, ?, ?, ?, ?, ?);`

	getIncidentAttachments = `
		SELECT
			id,
			name,
			type,
			size,
			data
		FROM attachments
		WHERE incident_id = ?
		ORDER BY position;`

	saveSession = `
		INSERT INTO session (id, user_id, created_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			user_id    = excluded.user_id,
			created_at = excluded.created_at;`

	getSession = `
		SELECT user_id, created_at
		FROM session
		WHERE id = 1;`

	deleteSession = `
		DELETE FROM session
		WHERE id = 1;`
)

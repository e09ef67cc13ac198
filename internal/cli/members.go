package cli

import (
	"flag"
	"fmt"

	"github.com/mrlokans/gymflow/internal/entities"
)

// personFlags are the flags shared by every kind of member.
type personFlags struct {
	Name       string
	BirthDate  dateValue
	NationalID string
	Phone      string
	Email      string
}

func (p *personFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.Name, "name", "", "Full name")
	fs.Var(&p.BirthDate, "birth", "Birth date (YYYY-MM-DD)")
	fs.StringVar(&p.NationalID, "national-id", "", "National id (CPF), 11 digits; punctuation is ignored")
	fs.StringVar(&p.Phone, "phone", "", "Phone number")
	fs.StringVar(&p.Email, "email", "", "Email address, unique")
}

func (p *personFlags) person() entities.Person {
	return entities.Person{
		Name:       p.Name,
		BirthDate:  p.BirthDate.t,
		NationalID: p.NationalID,
		Phone:      p.Phone,
		Email:      p.Email,
	}
}

// apply copies the explicitly given flags onto an existing person.
func (p *personFlags) apply(c *common, dst *entities.Person) {
	if c.isSet("name") {
		dst.Name = p.Name
	}
	if c.isSet("birth") {
		dst.BirthDate = p.BirthDate.t
	}
	if c.isSet("national-id") {
		dst.NationalID = p.NationalID
	}
	if c.isSet("phone") {
		dst.Phone = p.Phone
	}
	if c.isSet("email") {
		dst.Email = p.Email
	}
}

var personRequired = []string{"name", "birth", "national-id", "email"}

func (c *common) printPerson(p entities.Person) {
	c.printf("  National id: %s\n", p.NationalID)
	c.printf("  Birth date:  %s\n", entities.FormatDate(p.BirthDate))
	c.printf("  Email:       %s\n", p.Email)
	if p.Phone != "" {
		c.printf("  Phone:       %s\n", p.Phone)
	}
}

var studentActions = []string{"add", "list", "show", "update", "delete"}

// StudentCommand manages students.
type StudentCommand struct {
	common
	personFlags
	Action string

	ID             uint
	EnrollmentDate dateValue
	SignatureDate  dateValue
	PlanID         uint
}

func NewStudentCommand() *StudentCommand {
	return &StudentCommand{}
}

func (cmd *StudentCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("student", args, studentActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("student", action, "Manage students. Deleting a student also removes its assignments and evaluations.", studentActions)
	cmd.common.register(fs)
	cmd.personFlags.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Student id (show, update, delete)")
	fs.Var(&cmd.EnrollmentDate, "enrolled", "Enrollment date (default: today)")
	fs.Var(&cmd.SignatureDate, "signed", "Contract signature date")
	fs.UintVar(&cmd.PlanID, "plan", 0, "Plan id; filters list")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add":
		return cmd.require(personRequired...)
	case "show":
		if !cmd.isSet("id") && !cmd.isSet("national-id") {
			return fmt.Errorf("one of -id or -national-id is required")
		}
	case "update", "delete":
		return cmd.require("id")
	}
	return nil
}

func (cmd *StudentCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	switch cmd.Action {
	case "add":
		s, err := app.Members.RegisterStudent(ctx, entities.Student{
			Person:         cmd.person(),
			EnrollmentDate: cmd.EnrollmentDate.t,
			SignatureDate:  cmd.SignatureDate.ptr(),
			PlanID:         optionalID(cmd.PlanID),
		})
		if err != nil {
			return err
		}
		cmd.printf("Registered student %d: %s\n", s.PersonID, s.Person.Name)

	case "list":
		list, err := app.Members.Students(ctx, cmd.PlanID)
		if err != nil {
			return err
		}
		today := app.Workouts.Today()
		w := cmd.table("ID", "NAME", "AGE", "NATIONAL ID", "EMAIL", "PLAN", "ENROLLED")
		for _, s := range list {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n", s.PersonID, s.Person.Name, s.Person.Age(today),
				s.Person.NationalID, s.Person.Email, formatOptionalID(s.PlanID), entities.FormatDate(s.EnrollmentDate))
		}
		return w.Flush()

	case "show":
		var s *entities.Student
		if cmd.ID != 0 {
			s, err = app.Members.Student(ctx, cmd.ID)
		} else {
			s, err = app.Members.StudentByNationalID(ctx, cmd.NationalID)
		}
		if err != nil {
			return err
		}
		cmd.printf("Student %d: %s (%d years)\n", s.PersonID, s.Person.Name, s.Person.Age(app.Workouts.Today()))
		cmd.printPerson(s.Person)
		cmd.printf("  Enrolled:    %s\n", entities.FormatDate(s.EnrollmentDate))
		cmd.printf("  Signed:      %s\n", entities.FormatOptionalDate(s.SignatureDate))
		if s.Plan != nil {
			cmd.printf("  Plan:        %s (%d)\n", s.Plan.Name, s.Plan.ID)
		}

	case "update":
		s, err := app.Members.Student(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.personFlags.apply(&cmd.common, &s.Person)
		if cmd.isSet("enrolled") {
			s.EnrollmentDate = cmd.EnrollmentDate.t
		}
		if cmd.isSet("signed") {
			s.SignatureDate = cmd.SignatureDate.ptr()
		}
		if cmd.isSet("plan") {
			s.PlanID = optionalID(cmd.PlanID)
		}
		s.Plan = nil
		if err := app.Members.UpdateStudent(ctx, *s); err != nil {
			return err
		}
		cmd.printf("Updated student %d\n", s.PersonID)

	case "delete":
		if err := app.Members.DeleteStudent(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted student %d\n", cmd.ID)
	}
	return nil
}

var employeeActions = []string{"add", "list", "show", "update", "delete"}

// EmployeeCommand manages employees that are not teachers.
type EmployeeCommand struct {
	common
	personFlags
	Action string

	ID            uint
	Role          string
	AdmissionDate dateValue
	Salary        float64
}

func NewEmployeeCommand() *EmployeeCommand {
	return &EmployeeCommand{}
}

func (cmd *EmployeeCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("employee", args, employeeActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("employee", action, "Manage employees. Teachers are managed with the teacher command.", employeeActions)
	cmd.common.register(fs)
	cmd.personFlags.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Employee id (show, update, delete)")
	fs.StringVar(&cmd.Role, "role", "", "Job role; filters list")
	fs.Var(&cmd.AdmissionDate, "admitted", "Admission date (default: today)")
	fs.Float64Var(&cmd.Salary, "salary", 0, "Monthly salary")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add":
		return cmd.require(append(personRequired, "role")...)
	case "show", "update", "delete":
		return cmd.require("id")
	}
	return nil
}

func (cmd *EmployeeCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	switch cmd.Action {
	case "add":
		e, err := app.Members.RegisterEmployee(ctx, entities.Employee{
			Person:        cmd.person(),
			Role:          cmd.Role,
			AdmissionDate: cmd.AdmissionDate.t,
			Salary:        cmd.Salary,
		})
		if err != nil {
			return err
		}
		cmd.printf("Registered employee %d: %s\n", e.PersonID, e.Person.Name)

	case "list":
		list, err := app.Members.Employees(ctx, cmd.Role)
		if err != nil {
			return err
		}
		w := cmd.table("ID", "NAME", "ROLE", "ADMITTED", "SALARY")
		for _, e := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.PersonID, e.Person.Name, e.Role,
				entities.FormatDate(e.AdmissionDate), money(e.Salary))
		}
		return w.Flush()

	case "show":
		e, err := app.Members.Employee(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.printf("Employee %d: %s\n", e.PersonID, e.Person.Name)
		cmd.printPerson(e.Person)
		cmd.printf("  Role:        %s\n", e.Role)
		cmd.printf("  Admitted:    %s\n", entities.FormatDate(e.AdmissionDate))
		cmd.printf("  Salary:      %s\n", money(e.Salary))

	case "update":
		e, err := app.Members.Employee(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.personFlags.apply(&cmd.common, &e.Person)
		if cmd.isSet("role") {
			e.Role = cmd.Role
		}
		if cmd.isSet("admitted") {
			e.AdmissionDate = cmd.AdmissionDate.t
		}
		if cmd.isSet("salary") {
			e.Salary = cmd.Salary
		}
		if err := app.Members.UpdateEmployee(ctx, *e); err != nil {
			return err
		}
		cmd.printf("Updated employee %d\n", e.PersonID)

	case "delete":
		if err := app.Members.DeleteEmployee(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted employee %d\n", cmd.ID)
	}
	return nil
}

var teacherActions = []string{"add", "list", "show", "update", "delete"}

// TeacherCommand manages teachers together with their employee and person rows.
type TeacherCommand struct {
	common
	personFlags
	Action string

	ID            uint
	Role          string
	AdmissionDate dateValue
	Salary        float64
	Specialty     string
	License       string
}

func NewTeacherCommand() *TeacherCommand {
	return &TeacherCommand{}
}

func (cmd *TeacherCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("teacher", args, teacherActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("teacher", action, "Manage teachers. A teacher is also an employee and a person; delete removes all three.", teacherActions)
	cmd.common.register(fs)
	cmd.personFlags.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Teacher id (show, update, delete)")
	fs.StringVar(&cmd.Role, "role", "", "Job role (default: Teacher)")
	fs.Var(&cmd.AdmissionDate, "admitted", "Admission date (default: today)")
	fs.Float64Var(&cmd.Salary, "salary", 0, "Monthly salary")
	fs.StringVar(&cmd.Specialty, "specialty", "", "Specialty; filters list")
	fs.StringVar(&cmd.License, "license", "", "Professional license (CREF), unique")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add":
		return cmd.require(append(personRequired, "license")...)
	case "show":
		if !cmd.isSet("id") && !cmd.isSet("license") {
			return fmt.Errorf("one of -id or -license is required")
		}
	case "update", "delete":
		return cmd.require("id")
	}
	return nil
}

func (cmd *TeacherCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	switch cmd.Action {
	case "add":
		t, err := app.Members.RegisterTeacher(ctx, entities.Teacher{
			Employee: entities.Employee{
				Person:        cmd.person(),
				Role:          cmd.Role,
				AdmissionDate: cmd.AdmissionDate.t,
				Salary:        cmd.Salary,
			},
			Specialty: cmd.Specialty,
			License:   cmd.License,
		})
		if err != nil {
			return err
		}
		cmd.printf("Registered teacher %d: %s\n", t.ID(), t.Name())

	case "list":
		list, err := app.Members.Teachers(ctx, cmd.Specialty)
		if err != nil {
			return err
		}
		w := cmd.table("ID", "NAME", "SPECIALTY", "LICENSE", "ADMITTED")
		for _, t := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID(), t.Name(), t.Specialty, t.License,
				entities.FormatDate(t.Employee.AdmissionDate))
		}
		return w.Flush()

	case "show":
		var t *entities.Teacher
		if cmd.ID != 0 {
			t, err = app.Members.Teacher(ctx, cmd.ID)
		} else {
			t, err = app.Members.TeacherByLicense(ctx, cmd.License)
		}
		if err != nil {
			return err
		}
		cmd.printf("Teacher %d: %s\n", t.ID(), t.Name())
		cmd.printPerson(t.Employee.Person)
		cmd.printf("  Role:        %s\n", t.Employee.Role)
		cmd.printf("  Specialty:   %s\n", t.Specialty)
		cmd.printf("  License:     %s\n", t.License)
		cmd.printf("  Admitted:    %s\n", entities.FormatDate(t.Employee.AdmissionDate))
		cmd.printf("  Salary:      %s\n", money(t.Employee.Salary))

	case "update":
		t, err := app.Members.Teacher(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.personFlags.apply(&cmd.common, &t.Employee.Person)
		if cmd.isSet("role") {
			t.Employee.Role = cmd.Role
		}
		if cmd.isSet("admitted") {
			t.Employee.AdmissionDate = cmd.AdmissionDate.t
		}
		if cmd.isSet("salary") {
			t.Employee.Salary = cmd.Salary
		}
		if cmd.isSet("specialty") {
			t.Specialty = cmd.Specialty
		}
		if cmd.isSet("license") {
			t.License = cmd.License
		}
		if err := app.Members.UpdateTeacher(ctx, *t); err != nil {
			return err
		}
		cmd.printf("Updated teacher %d\n", t.ID())

	case "delete":
		if err := app.Members.DeleteTeacher(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted teacher %d\n", cmd.ID)
	}
	return nil
}

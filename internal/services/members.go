package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/audit"
	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// MemberService manages students, employees and teachers.
type MemberService struct {
	base
	students  StudentStore
	employees EmployeeStore
	teachers  TeacherStore
}

func NewMemberService(students StudentStore, employees EmployeeStore, teachers TeacherStore, auditor *audit.Service, logger zerolog.Logger, opts ...Option) *MemberService {
	return &MemberService{
		base:      newBase(auditor, logger, "members", opts),
		students:  students,
		employees: employees,
		teachers:  teachers,
	}
}

// checkPerson rejects a national id or email already used by another person.
func (s *MemberService) checkPerson(ctx context.Context, checker PersonChecker, p entities.Person, excludeID uint) error {
	taken, err := checker.ExistsByNationalIDOrEmail(ctx, p.NationalID, p.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		s.logger.Warn().Str("email", p.Email).Msg("person already registered")
		return database.Conflict("national id %s or email %s is already registered", p.NationalID, p.Email)
	}
	return nil
}

func normalizePerson(p *entities.Person) {
	p.NationalID = NormalizeNationalID(p.NationalID)
	p.BirthDate = entities.DateOf(p.BirthDate)
}

// RegisterStudent stores a new student. The enrollment date defaults to today.
func (s *MemberService) RegisterStudent(ctx context.Context, st entities.Student) (*entities.Student, error) {
	normalizePerson(&st.Person)
	if st.EnrollmentDate.IsZero() {
		st.EnrollmentDate = s.today()
	}
	if err := s.validator.Struct(st); err != nil {
		return nil, err
	}
	if err := s.checkPerson(ctx, s.students, st.Person, 0); err != nil {
		return nil, err
	}

	created, err := s.students.Create(ctx, st)
	if err != nil {
		s.audit.LogCreate(ctx, "student", 0, st.Person.Name, err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "student", created.PersonID, created.Person.Name, nil)
	return created, nil
}

func (s *MemberService) UpdateStudent(ctx context.Context, st entities.Student) error {
	normalizePerson(&st.Person)
	if err := s.validator.Struct(st); err != nil {
		return err
	}
	if err := s.checkPerson(ctx, s.students, st.Person, st.PersonID); err != nil {
		return err
	}
	err := s.students.Update(ctx, st)
	s.audit.LogUpdate(ctx, "student", st.PersonID, st.Person.Name, err)
	return err
}

// DeleteStudent removes a student with its assignments and evaluations.
func (s *MemberService) DeleteStudent(ctx context.Context, id uint) error {
	err := s.students.Delete(ctx, id)
	s.audit.LogDelete(ctx, "student", id, err)
	return err
}

func (s *MemberService) Student(ctx context.Context, id uint) (*entities.Student, error) {
	return s.students.FindByID(ctx, id)
}

func (s *MemberService) StudentByNationalID(ctx context.Context, nationalID string) (*entities.Student, error) {
	return s.students.FindByNationalID(ctx, NormalizeNationalID(nationalID))
}

// Students lists every student, or only those of a plan when planID is set.
func (s *MemberService) Students(ctx context.Context, planID uint) ([]entities.Student, error) {
	if planID != 0 {
		return s.students.ListByPlan(ctx, planID)
	}
	return s.students.List(ctx)
}

// RegisterEmployee stores a new employee. The admission date defaults to today.
func (s *MemberService) RegisterEmployee(ctx context.Context, e entities.Employee) (*entities.Employee, error) {
	normalizePerson(&e.Person)
	if e.AdmissionDate.IsZero() {
		e.AdmissionDate = s.today()
	}
	if err := s.validator.Struct(e); err != nil {
		return nil, err
	}
	if err := s.checkPerson(ctx, s.employees, e.Person, 0); err != nil {
		return nil, err
	}

	created, err := s.employees.Create(ctx, e)
	if err != nil {
		s.audit.LogCreate(ctx, "employee", 0, e.Person.Name, err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "employee", created.PersonID, created.Person.Name, nil)
	return created, nil
}

func (s *MemberService) UpdateEmployee(ctx context.Context, e entities.Employee) error {
	normalizePerson(&e.Person)
	if err := s.validator.Struct(e); err != nil {
		return err
	}
	if err := s.checkPerson(ctx, s.employees, e.Person, e.PersonID); err != nil {
		return err
	}
	err := s.employees.Update(ctx, e)
	s.audit.LogUpdate(ctx, "employee", e.PersonID, e.Person.Name, err)
	return err
}

func (s *MemberService) DeleteEmployee(ctx context.Context, id uint) error {
	err := s.employees.Delete(ctx, id)
	s.audit.LogDelete(ctx, "employee", id, err)
	return err
}

func (s *MemberService) Employee(ctx context.Context, id uint) (*entities.Employee, error) {
	return s.employees.FindByID(ctx, id)
}

// Employees lists every employee, or only those with the given role.
func (s *MemberService) Employees(ctx context.Context, role string) ([]entities.Employee, error) {
	if role != "" {
		return s.employees.ListByRole(ctx, role)
	}
	return s.employees.List(ctx)
}

// RegisterTeacher stores a new teacher together with its employee and
// person rows.
func (s *MemberService) RegisterTeacher(ctx context.Context, t entities.Teacher) (*entities.Teacher, error) {
	normalizePerson(&t.Employee.Person)
	if t.Employee.AdmissionDate.IsZero() {
		t.Employee.AdmissionDate = s.today()
	}
	if t.Employee.Role == "" {
		t.Employee.Role = "Teacher"
	}
	if err := s.validator.Struct(t); err != nil {
		return nil, err
	}
	if err := s.checkPerson(ctx, s.teachers, t.Employee.Person, 0); err != nil {
		return nil, err
	}
	if err := s.checkLicense(ctx, t.License, 0); err != nil {
		return nil, err
	}

	created, err := s.teachers.Create(ctx, t)
	if err != nil {
		s.audit.LogCreate(ctx, "teacher", 0, t.Employee.Person.Name, err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "teacher", created.ID(), created.Name(), nil)
	return created, nil
}

func (s *MemberService) UpdateTeacher(ctx context.Context, t entities.Teacher) error {
	normalizePerson(&t.Employee.Person)
	if err := s.validator.Struct(t); err != nil {
		return err
	}
	if err := s.checkPerson(ctx, s.teachers, t.Employee.Person, t.EmployeeID); err != nil {
		return err
	}
	if err := s.checkLicense(ctx, t.License, t.EmployeeID); err != nil {
		return err
	}
	err := s.teachers.Update(ctx, t)
	s.audit.LogUpdate(ctx, "teacher", t.EmployeeID, t.Employee.Person.Name, err)
	return err
}

// DeleteTeacher removes the teacher, its employee row and its person row.
func (s *MemberService) DeleteTeacher(ctx context.Context, id uint) error {
	err := s.teachers.Delete(ctx, id)
	s.audit.LogDelete(ctx, "teacher", id, err)
	return err
}

func (s *MemberService) Teacher(ctx context.Context, id uint) (*entities.Teacher, error) {
	return s.teachers.FindByID(ctx, id)
}

func (s *MemberService) TeacherByLicense(ctx context.Context, license string) (*entities.Teacher, error) {
	return s.teachers.FindByLicense(ctx, license)
}

// Teachers lists every teacher, or only those of a specialty.
func (s *MemberService) Teachers(ctx context.Context, specialty string) ([]entities.Teacher, error) {
	if specialty != "" {
		return s.teachers.ListBySpecialty(ctx, specialty)
	}
	return s.teachers.List(ctx)
}

func (s *MemberService) checkLicense(ctx context.Context, license string, excludeID uint) error {
	taken, err := s.teachers.LicenseExists(ctx, license, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return database.Conflict("license %s is already registered", license)
	}
	return nil
}
